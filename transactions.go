package insider

import (
	"sort"
	"strings"
)

// TransactionRecord is one flat Table I transaction row, ready for
// storage or display. Every record carries the metadata of exactly one
// source filing; records are never merged across filings.
type TransactionRecord struct {
	IssuerCIK    string `json:"issuer_cik"`
	IssuerName   string `json:"issuer_name"`
	IssuerSymbol string `json:"issuer_symbol"`

	InsiderName  string `json:"insider_name,omitempty"`
	InsiderCIK   string `json:"insider_cik,omitempty"`
	Relation     string `json:"relation,omitempty"`
	OfficerTitle string `json:"officer_title,omitempty"`
	OwnerCount   int    `json:"owner_count"`

	SecurityTitle          string   `json:"security_title"`
	TransactionDate        string   `json:"transaction_date"`
	TransactionCode        string   `json:"transaction_code"`
	TransactionDescription string   `json:"transaction_description"`
	SharesTraded           *int64   `json:"shares_traded"`
	Price                  *float64 `json:"price"`
	SharesHeldAfter        *int64   `json:"shares_held_after"`
	OwnershipNature        string   `json:"ownership_nature"` // direct | indirect | unknown
	Timeliness             string   `json:"timeliness,omitempty"`
	IsBuy                  bool     `json:"is_buy"`
	IsSale                 bool     `json:"is_sale"`

	FilingURL string `json:"filing_url"`
	FiledDate string `json:"filed_date"`
	FormType  string `json:"form_type"`
}

// FlattenTransactions turns a parsed ownership document into flat
// transaction records. With no reporting owners each transaction emits
// one record with empty owner fields; with one or more owners every owner
// is attached to every transaction. Joint filings do not attribute
// Table I rows to individual owners, so the cross product is the only
// faithful reading; OwnerCount lets consumers spot fanned-out rows.
// Derivative-only filings yield nothing.
func FlattenTransactions(doc *OwnershipDocument) []TransactionRecord {
	if doc.NonDerivativeTable == nil {
		return nil
	}

	owners := doc.ReportingOwners
	var records []TransactionRecord
	for _, txn := range doc.NonDerivativeTable.Transactions {
		base := TransactionRecord{
			IssuerCIK:              doc.Issuer.CIK,
			IssuerName:             doc.Issuer.Name,
			IssuerSymbol:           doc.Issuer.TradingSymbol,
			OwnerCount:             len(owners),
			SecurityTitle:          txn.SecurityTitle,
			TransactionDate:        txn.TransactionDate,
			TransactionCode:        txn.Coding.Code,
			TransactionDescription: describeTransaction(txn.Coding.Code, txn.Coding.Description),
			SharesTraded:           txn.Amounts.Shares.Int64Ptr(),
			Price:                  txn.Amounts.PricePerShare.Float64Ptr(),
			SharesHeldAfter:        txn.PostTransaction.SharesOwnedFollowing.Int64Ptr(),
			OwnershipNature:        ownershipNature(txn.OwnershipNature.DirectOrIndirect),
			Timeliness:             txn.Timeliness,
			IsBuy:                  txn.Coding.Code == "P",
			IsSale:                 txn.Coding.Code == "S",
		}

		if len(owners) == 0 {
			records = append(records, base)
			continue
		}
		for _, owner := range owners {
			rec := base
			rec.InsiderName = owner.ID.Name
			rec.InsiderCIK = owner.ID.CIK
			rec.Relation = owner.Relationship.Label()
			rec.OfficerTitle = owner.Relationship.OfficerTitle
			records = append(records, rec)
		}
	}
	return records
}

// describeTransaction keeps the filing's own description when present,
// else synthesizes one from the transaction code.
func describeTransaction(code, explicit string) string {
	if explicit != "" {
		return explicit
	}
	switch code {
	case "P":
		return "Purchase (Open Market)"
	case "S":
		return "Sale"
	case "":
		return "Code ?"
	}
	return "Code " + code
}

// ownershipNature maps the document's D/I flag to a spelled-out value.
func ownershipNature(s string) string {
	switch strings.TrimSpace(s) {
	case "D":
		return "direct"
	case "I":
		return "indirect"
	}
	return "unknown"
}

// SortTransactions orders records by (transaction date, filed date)
// descending. The sort is stable, so equal keys keep input order, and a
// missing transaction date is the empty string, which sorts after every
// dated entry.
func SortTransactions(records []TransactionRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.TransactionDate != b.TransactionDate {
			return a.TransactionDate > b.TransactionDate
		}
		return a.FiledDate > b.FiledDate
	})
}
