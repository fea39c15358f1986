package insider

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// FilingReference is one row of the daily master index: a single filing
// identified by registrant and submission path.
type FilingReference struct {
	CIK         string `json:"cik"`
	CompanyName string `json:"company_name"`
	FormType    string `json:"form_type"`
	FiledDate   string `json:"filed_date"` // YYYY-MM-DD when canonicalizable
	FileName    string `json:"file_name"`  // submission path as recorded in the index
	FilingURL   string `json:"filing_url"`
}

// FormPredicate selects index rows by form type.
type FormPredicate func(formType string) bool

// FormTypeIn matches any of the given form types exactly.
func FormTypeIn(types ...string) FormPredicate {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return func(formType string) bool {
		_, ok := set[formType]
		return ok
	}
}

// FormTypePrefix matches case-insensitively on any of the given prefixes,
// so a base form also selects its amendments ("SC 13D" matches
// "SC 13D/A").
func FormTypePrefix(prefixes ...string) FormPredicate {
	upper := make([]string, len(prefixes))
	for i, p := range prefixes {
		upper[i] = strings.ToUpper(p)
	}
	return func(formType string) bool {
		formType = strings.ToUpper(formType)
		for _, p := range upper {
			if strings.HasPrefix(formType, p) {
				return true
			}
		}
		return false
	}
}

// IsForm4 selects insider-transaction reports and their amendments.
var IsForm4 = FormTypeIn("4", "4/A")

// IsSchedule13 selects large-holder disclosure statements (SC 13D,
// SC 13G, and amendments).
var IsSchedule13 = FormTypePrefix("SC 13D", "SC 13G")

// ParseDailyIndex parses one day's master index into filing references,
// keeping only rows whose form type satisfies pred. The index is a
// preamble followed by a dashed separator and pipe-delimited rows of
// exactly five fields; anything malformed is skipped. An index with no
// separator yields nothing. Output keeps the file's natural order.
func ParseDailyIndex(text string, pred FormPredicate) []FilingReference {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "-----") {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var entries []FilingReference
	for _, line := range lines[start:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 5 {
			continue
		}
		formType := strings.TrimSpace(parts[2])
		if !pred(formType) {
			continue
		}
		fileName := strings.TrimSpace(parts[4])
		entries = append(entries, FilingReference{
			CIK:         strings.TrimSpace(parts[0]),
			CompanyName: strings.TrimSpace(parts[1]),
			FormType:    formType,
			FiledDate:   canonicalDate(strings.TrimSpace(parts[3])),
			FileName:    fileName,
			FilingURL:   ArchiveRoot + strings.TrimLeft(fileName, "/"),
		})
	}
	return entries
}

// canonicalDate turns a compact YYYYMMDD date into YYYY-MM-DD. Anything
// else passes through raw. The rewrite preserves lexicographic order, so
// date sorts behave the same on both forms.
func canonicalDate(s string) string {
	if len(s) != 8 {
		return s
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}
	return s[:4] + "-" + s[4:6] + "-" + s[6:]
}

// QuarterOf returns the calendar quarter a month falls in.
func QuarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}

// DailyIndexURL derives the master index location for a calendar day from
// its year and quarter.
func DailyIndexURL(day time.Time) string {
	return fmt.Sprintf("%sedgar/daily-index/%d/QTR%d/master.%s.idx",
		ArchiveRoot, day.Year(), QuarterOf(day.Month()), day.Format("20060102"))
}

// DayIndex pairs a calendar day with its fetched index text.
type DayIndex struct {
	Date time.Time
	Text string
}

// IndexScanner walks a trailing window of daily indexes. Now is
// injectable for tests and defaults to time.Now.
type IndexScanner struct {
	Fetcher Fetcher
	Now     func() time.Time
}

// Scan fetches the daily index for each of the trailing daysBack calendar
// days, most recent first. Days the archive has no index for (weekends,
// holidays, gaps) are skipped, not failed.
func (s *IndexScanner) Scan(ctx context.Context, daysBack int) ([]DayIndex, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	today := now()

	var out []DayIndex
	for offset := 0; offset < daysBack; offset++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		day := today.AddDate(0, 0, -offset)
		text, err := s.Fetcher.Fetch(ctx, DailyIndexURL(day))
		if err != nil {
			continue
		}
		out = append(out, DayIndex{Date: day, Text: text})
	}
	return out, nil
}
