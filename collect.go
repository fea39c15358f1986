package insider

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Collector runs the filing discovery and normalization pipelines over a
// trailing window of daily indexes. Execution is strictly sequential:
// one fetch at a time, paced by the Fetcher. Failures are isolated per
// item, so a run always completes with whatever subset it could derive.
type Collector struct {
	Fetcher Fetcher
	Scanner *IndexScanner
	Logger  *zap.Logger
}

// NewCollector builds a Collector. A nil logger disables logging.
func NewCollector(fetcher Fetcher, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		Fetcher: fetcher,
		Scanner: &IndexScanner{Fetcher: fetcher},
		Logger:  logger,
	}
}

// FilingResult is the outcome of processing one filing: either the
// records it contributed or the reason it was skipped. A skip never
// aborts the batch.
type FilingResult struct {
	Ref        FilingReference
	Records    []TransactionRecord
	SkipReason string
}

// Skipped reports whether the filing contributed nothing.
func (r FilingResult) Skipped() bool { return r.SkipReason != "" }

// CollectionSummary compares what a run was asked for against what it
// produced, so partial data is discoverable by the caller.
type CollectionSummary struct {
	DaysRequested  int
	DaysFetched    int
	FilingsFound   int
	FilingsCapped  int
	FilingsParsed  int
	FilingsSkipped int
	Rows           int
}

// CollectForm4Transactions scans the trailing window for insider
// transaction filings, resolves and parses each one's ownership
// document, and returns the flattened records sorted by
// (transaction date, filed date) descending. maxFilings caps the
// most-recently-filed references before any per-filing fetches.
func (c *Collector) CollectForm4Transactions(ctx context.Context, daysBack, maxFilings int) ([]TransactionRecord, CollectionSummary, error) {
	summary := CollectionSummary{DaysRequested: daysBack}

	days, err := c.Scanner.Scan(ctx, daysBack)
	if err != nil {
		return nil, summary, err
	}
	summary.DaysFetched = len(days)

	var filings []FilingReference
	for _, day := range days {
		filings = append(filings, ParseDailyIndex(day.Text, IsForm4)...)
	}
	summary.FilingsFound = len(filings)

	filings = capByFiledDate(filings, maxFilings)
	summary.FilingsCapped = len(filings)

	records := []TransactionRecord{}
	for _, ref := range filings {
		if err := ctx.Err(); err != nil {
			return records, summary, err
		}
		result := c.processForm4Filing(ctx, ref)
		if result.Skipped() {
			summary.FilingsSkipped++
			c.Logger.Warn("skipping filing",
				zap.String("url", ref.FilingURL),
				zap.String("reason", result.SkipReason))
			continue
		}
		summary.FilingsParsed++
		records = append(records, result.Records...)
	}

	SortTransactions(records)
	summary.Rows = len(records)
	c.Logger.Info("collected insider transactions",
		zap.Int("days_fetched", summary.DaysFetched),
		zap.Int("filings", summary.FilingsParsed),
		zap.Int("skipped", summary.FilingsSkipped),
		zap.Int("rows", summary.Rows))
	return records, summary, nil
}

// processForm4Filing resolves and parses one filing, stamping every
// record with the filing's URL, filed date, and form type.
func (c *Collector) processForm4Filing(ctx context.Context, ref FilingReference) FilingResult {
	doc, err := c.resolveDocument(ctx, ref)
	if err != nil {
		return FilingResult{Ref: ref, SkipReason: err.Error()}
	}

	parsed, err := ParseOwnershipDocument([]byte(doc))
	if err != nil {
		return FilingResult{Ref: ref, SkipReason: fmt.Sprintf("parse ownership document: %v", err)}
	}

	records := FlattenTransactions(parsed)
	for i := range records {
		records[i].FilingURL = ref.FilingURL
		records[i].FiledDate = ref.FiledDate
		records[i].FormType = ref.FormType
	}
	return FilingResult{Ref: ref, Records: records}
}

// resolveDocument applies the layout strategy the submission path calls
// for. When an embedded submission turns out to carry no ownership
// document, the accession manifest gets one more look before the filing
// is given up on.
func (c *Collector) resolveDocument(ctx context.Context, ref FilingReference) (string, error) {
	strategy := StrategyFor(ref.FileName)
	doc, err := strategy.ResolveDocument(ctx, c.Fetcher, ref)
	if errors.Is(err, ErrNoOwnershipDocument) {
		if _, embedded := strategy.(EmbeddedDocument); embedded {
			return ManifestLookup{}.ResolveDocument(ctx, c.Fetcher, ref)
		}
	}
	return doc, err
}

// CollectSchedule13Filings scans the trailing window for large-holder
// disclosure statements and returns one row per filing, filed date
// descending. Identity comes from each submission's header block, then
// the rendered cover page, then the index row itself.
func (c *Collector) CollectSchedule13Filings(ctx context.Context, daysBack, maxFilings int) ([]LargeHolderFiling, CollectionSummary, error) {
	summary := CollectionSummary{DaysRequested: daysBack}

	days, err := c.Scanner.Scan(ctx, daysBack)
	if err != nil {
		return nil, summary, err
	}
	summary.DaysFetched = len(days)

	var filings []FilingReference
	for _, day := range days {
		filings = append(filings, ParseDailyIndex(day.Text, IsSchedule13)...)
	}
	summary.FilingsFound = len(filings)

	filings = capByFiledDate(filings, maxFilings)
	summary.FilingsCapped = len(filings)

	rows := []LargeHolderFiling{}
	for _, ref := range filings {
		if err := ctx.Err(); err != nil {
			return rows, summary, err
		}
		body, err := c.Fetcher.Fetch(ctx, ref.FilingURL)
		if err != nil {
			summary.FilingsSkipped++
			c.Logger.Warn("skipping filing",
				zap.String("url", ref.FilingURL),
				zap.Error(err))
			continue
		}
		summary.FilingsParsed++
		rows = append(rows, buildLargeHolderFiling(ref, body))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].FiledDate > rows[j].FiledDate
	})
	summary.Rows = len(rows)
	c.Logger.Info("collected large-holder filings",
		zap.Int("days_fetched", summary.DaysFetched),
		zap.Int("filings", summary.FilingsParsed),
		zap.Int("skipped", summary.FilingsSkipped))
	return rows, summary, nil
}

// buildLargeHolderFiling recovers issuer and filer identity from the
// submission header, falling back to the rendered cover page and finally
// to the index row's own fields.
func buildLargeHolderFiling(ref FilingReference, body string) LargeHolderFiling {
	row := LargeHolderFiling{
		FormType:   ref.FormType,
		FilingURL:  ref.FilingURL,
		FiledDate:  ref.FiledDate,
		IssuerName: ref.CompanyName,
		IssuerCIK:  ref.CIK,
	}

	if header, ok := ParseFilingHeader(body); ok {
		if header.SubjectCompanyName != "" {
			row.IssuerName = header.SubjectCompanyName
		}
		if header.SubjectCompanyCIK != "" {
			row.IssuerCIK = header.SubjectCompanyCIK
		}
		row.FilerName = header.FilerName
		row.FilerCIK = header.FilerCIK
		row.PeriodOfReport = header.PeriodOfReport
		return row
	}

	if name := SubjectCompanyFromHTML(body); name != "" {
		row.IssuerName = name
	}
	return row
}

// capByFiledDate keeps the maxFilings most recently filed references.
// The sort is stable, so same-day filings keep their index order.
func capByFiledDate(filings []FilingReference, maxFilings int) []FilingReference {
	sort.SliceStable(filings, func(i, j int) bool {
		return filings[i].FiledDate > filings[j].FiledDate
	})
	if maxFilings >= 0 && len(filings) > maxFilings {
		filings = filings[:maxFilings]
	}
	return filings
}
