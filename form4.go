package insider

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"
)

// OwnershipDocument is the structured exhibit embedded in insider
// transaction filings (Forms 3, 4, 5) describing issuer, reporting
// owners, and transactions.
type OwnershipDocument struct {
	XMLName         xml.Name         `xml:"ownershipDocument"`
	SchemaVersion   string           `xml:"schemaVersion"`
	DocumentType    string           `xml:"documentType"`
	PeriodOfReport  string           `xml:"periodOfReport"`
	Issuer          Issuer           `xml:"issuer"`
	ReportingOwners []ReportingOwner `xml:"reportingOwner"`

	// Table I. Non-derivative transactions are the only rows the
	// pipeline flattens.
	NonDerivativeTable *NonDerivativeTable `xml:"nonDerivativeTable"`

	// Table II. Accepted so derivative-only filings parse cleanly, but
	// never flattened.
	DerivativeTable *DerivativeTable `xml:"derivativeTable"`

	Remarks string `xml:"remarks"`
}

// Issuer is the company whose stock is being traded.
type Issuer struct {
	CIK           string `xml:"issuerCik"`
	Name          string `xml:"issuerName"`
	TradingSymbol string `xml:"issuerTradingSymbol"`
}

// ReportingOwner is an insider on whose behalf the filing was submitted.
// A filing may list more than one.
type ReportingOwner struct {
	ID           OwnerID      `xml:"reportingOwnerId"`
	Relationship Relationship `xml:"reportingOwnerRelationship"`
}

type OwnerID struct {
	CIK  string `xml:"rptOwnerCik"`
	Name string `xml:"rptOwnerName"`
}

// Relationship carries the owner's relation to the issuer.
type Relationship struct {
	IsDirector        Flag   `xml:"isDirector"`
	IsOfficer         Flag   `xml:"isOfficer"`
	IsTenPercentOwner Flag   `xml:"isTenPercentOwner"`
	IsOther           Flag   `xml:"isOther"`
	OfficerTitle      string `xml:"officerTitle"`
}

// Label builds the human-readable relation string shown alongside each
// transaction: "Officer", "Director", "10% Owner" in that fixed order for
// every true flag, "Other" when only the other flag (or nothing at all)
// is set.
func (r Relationship) Label() string {
	var parts []string
	if r.IsOfficer {
		parts = append(parts, "Officer")
	}
	if r.IsDirector {
		parts = append(parts, "Director")
	}
	if r.IsTenPercentOwner {
		parts = append(parts, "10% Owner")
	}
	if len(parts) == 0 {
		return "Other"
	}
	return strings.Join(parts, ", ")
}

// Flag is a permissive boolean. Filings encode relationship flags as "1",
// "Y", "yes", "true", or "TRUE" depending on vintage and filing agent;
// anything else, including absence, is false.
type Flag bool

func (f *Flag) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	*f = parseFlag(s)
	return nil
}

func (f *Flag) UnmarshalXMLAttr(attr xml.Attr) error {
	*f = parseFlag(attr.Value)
	return nil
}

func parseFlag(s string) Flag {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1", "Y", "YES", "TRUE":
		return true
	}
	return false
}

// NonDerivativeTable contains the Table I stock transactions.
type NonDerivativeTable struct {
	Transactions []NonDerivativeTransaction `xml:"nonDerivativeTransaction"`
}

// NonDerivativeTransaction is a direct equity transaction line item.
type NonDerivativeTransaction struct {
	SecurityTitle   string                 `xml:"securityTitle>value"`
	TransactionDate string                 `xml:"transactionDate>value"`
	Timeliness      string                 `xml:"transactionTimeliness>value"`
	Coding          TransactionCoding      `xml:"transactionCoding"`
	Amounts         TransactionAmounts     `xml:"transactionAmounts"`
	PostTransaction PostTransactionAmounts `xml:"postTransactionAmounts"`
	OwnershipNature OwnershipNature        `xml:"ownershipNature"`
}

type TransactionCoding struct {
	FormType    string `xml:"transactionFormType"`
	Code        string `xml:"transactionCode"`
	Description string `xml:"transactionDescription"`
}

type TransactionAmounts struct {
	Shares           Value  `xml:"transactionShares"`
	PricePerShare    Value  `xml:"transactionPricePerShare"`
	AcquiredDisposed string `xml:"transactionAcquiredDisposedCode>value"`
}

type PostTransactionAmounts struct {
	SharesOwnedFollowing Value `xml:"sharesOwnedFollowingTransaction"`
}

type OwnershipNature struct {
	DirectOrIndirect  string `xml:"directOrIndirectOwnership>value"`
	NatureOfOwnership string `xml:"natureOfOwnership>value"`
}

// DerivativeTable contains option/derivative transactions (Table II).
type DerivativeTable struct {
	Transactions []DerivativeTransaction `xml:"derivativeTransaction"`
}

type DerivativeTransaction struct {
	SecurityTitle   string            `xml:"securityTitle>value"`
	TransactionDate string            `xml:"transactionDate>value"`
	Coding          TransactionCoding `xml:"transactionCoding"`
}

// Value is the value/footnote wrapper the ownership schema puts around
// numbers.
type Value struct {
	Value string `xml:"value"`
}

// Float64Ptr parses the value as a number, tolerating thousands
// separators. Malformed or absent values yield nil rather than an error:
// the pipeline is best-effort and a single bad field must not sink the
// filing.
func (v Value) Float64Ptr() *float64 {
	s := strings.ReplaceAll(strings.TrimSpace(v.Value), ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Int64Ptr rounds the parsed value to a whole share count, nil when the
// value is absent or malformed.
func (v Value) Int64Ptr() *int64 {
	f := v.Float64Ptr()
	if f == nil {
		return nil
	}
	n := int64(math.Round(*f))
	return &n
}

// ParseOwnershipDocument unmarshals an extracted ownership document.
func ParseOwnershipDocument(data []byte) (*OwnershipDocument, error) {
	var doc OwnershipDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
