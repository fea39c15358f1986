package insider

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// LargeHolderFiling records one Schedule 13D/13G filing at
// filing-reference granularity. These forms report beneficial ownership
// of 5% or more of a company's stock; no transaction-level parsing
// happens for this form family.
type LargeHolderFiling struct {
	FormType       string `json:"form_type"`
	FilingURL      string `json:"filing_url"`
	FiledDate      string `json:"filed_date"`
	IssuerName     string `json:"issuer_name"`
	IssuerCIK      string `json:"issuer_cik"`
	FilerName      string `json:"filer_name,omitempty"`
	FilerCIK       string `json:"filer_cik,omitempty"`
	PeriodOfReport string `json:"period_of_report,omitempty"`
}

// FilingHeader holds the identity fields recovered from a submission's
// SEC-HEADER block.
type FilingHeader struct {
	SubjectCompanyName string
	SubjectCompanyCIK  string
	FilerName          string
	FilerCIK           string
	PeriodOfReport     string
}

var (
	secHeaderRe     = regexp.MustCompile(`(?is)<SEC-HEADER>(.*?)(</SEC-HEADER>|<DOCUMENT>)`)
	secHeaderOpenRe = regexp.MustCompile(`(?is)<SEC-HEADER>(.*)$`)
)

// extractSECHeaderBlock isolates the key/value header block at the top of
// a raw submission. Some filings never close the tag, so an open-ended
// match is the fallback.
func extractSECHeaderBlock(text string) (string, bool) {
	if m := secHeaderRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := secHeaderOpenRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// ParseFilingHeader parses the SEC-HEADER block of a raw submission into
// subject-company and filer identity. The block nests COMPANY CONFORMED
// NAME and CENTRAL INDEX KEY under both SUBJECT COMPANY and FILED BY
// sections, so keys are scoped by the most recent section marker. The
// second return is false when the submission has no header block at all.
func ParseFilingHeader(submission string) (*FilingHeader, bool) {
	block, ok := extractSECHeaderBlock(submission)
	if !ok {
		return nil, false
	}

	header := &FilingHeader{}
	section := ""
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "SUBJECT COMPANY"):
			section = "subject"
			continue
		case strings.HasPrefix(trimmed, "FILED BY"):
			section = "filer"
			continue
		}

		key, value, ok := splitKeyValueLine(trimmed)
		if !ok {
			continue
		}
		switch key {
		case "COMPANY CONFORMED NAME":
			if section == "subject" && header.SubjectCompanyName == "" {
				header.SubjectCompanyName = value
			} else if section == "filer" && header.FilerName == "" {
				header.FilerName = value
			}
		case "CENTRAL INDEX KEY":
			if section == "subject" && header.SubjectCompanyCIK == "" {
				header.SubjectCompanyCIK = value
			} else if section == "filer" && header.FilerCIK == "" {
				header.FilerCIK = value
			}
		case "CONFORMED PERIOD OF REPORT":
			header.PeriodOfReport = value
		}
	}
	return header, true
}

func splitKeyValueLine(line string) (key, value string, ok bool) {
	i := strings.Index(line, ":")
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

// SubjectCompanyFromHTML recovers the subject company name from a
// rendered Schedule 13 cover page, used when the submission carries no
// SEC-HEADER block. The cover page prints the company name directly
// above the "(Name of Issuer)" marker.
func SubjectCompanyFromHTML(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}
	return fieldBeforeMarker(extractText(doc), "(Name of Issuer)")
}

// extractText flattens an HTML tree into its text content, one line per
// text node so cover-page labels stay separable.
func extractText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(strings.TrimSpace(n.Data))
			buf.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// fieldBeforeMarker finds the value printed above a cover-page marker
// like "(Name of Issuer)": the nearest preceding non-empty line that is
// not itself a parenthesized label.
func fieldBeforeMarker(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}

	start := idx - 200
	if start < 0 {
		start = 0
	}
	lines := strings.Split(text[start:idx], "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" && !strings.HasPrefix(line, "(") && len(line) > 2 {
			return line
		}
	}
	return ""
}
