package insider_test

import (
	"fmt"
	"testing"

	insider "github.com/RxDataLab/edgar-insider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOwnershipXML = `<?xml version="1.0"?>
<ownershipDocument>
	<schemaVersion>X0306</schemaVersion>
	<documentType>4</documentType>
	<periodOfReport>2024-01-04</periodOfReport>
	<issuer>
		<issuerCik>0000320193</issuerCik>
		<issuerName>Apple Inc.</issuerName>
		<issuerTradingSymbol>AAPL</issuerTradingSymbol>
	</issuer>
	<reportingOwner>
		<reportingOwnerId>
			<rptOwnerCik>0001214156</rptOwnerCik>
			<rptOwnerName>DOE JANE</rptOwnerName>
		</reportingOwnerId>
		<reportingOwnerRelationship>
			<isDirector>0</isDirector>
			<isOfficer>1</isOfficer>
			<isTenPercentOwner>0</isTenPercentOwner>
			<isOther>0</isOther>
			<officerTitle>Chief Financial Officer</officerTitle>
		</reportingOwnerRelationship>
	</reportingOwner>
	<nonDerivativeTable>
		<nonDerivativeTransaction>
			<securityTitle><value>Common Stock</value></securityTitle>
			<transactionDate><value>2024-01-04</value></transactionDate>
			<transactionCoding>
				<transactionFormType>4</transactionFormType>
				<transactionCode>S</transactionCode>
			</transactionCoding>
			<transactionAmounts>
				<transactionShares><value>1,500</value></transactionShares>
				<transactionPricePerShare><value>185.25</value></transactionPricePerShare>
				<transactionAcquiredDisposedCode><value>D</value></transactionAcquiredDisposedCode>
			</transactionAmounts>
			<postTransactionAmounts>
				<sharesOwnedFollowingTransaction><value>10000</value></sharesOwnedFollowingTransaction>
			</postTransactionAmounts>
			<ownershipNature>
				<directOrIndirectOwnership><value>D</value></directOrIndirectOwnership>
			</ownershipNature>
		</nonDerivativeTransaction>
	</nonDerivativeTable>
</ownershipDocument>`

func TestParseOwnershipDocument(t *testing.T) {
	doc, err := insider.ParseOwnershipDocument([]byte(sampleOwnershipXML))
	require.NoError(t, err)

	assert.Equal(t, "4", doc.DocumentType)
	assert.Equal(t, "2024-01-04", doc.PeriodOfReport)
	assert.Equal(t, "Apple Inc.", doc.Issuer.Name)
	assert.Equal(t, "AAPL", doc.Issuer.TradingSymbol)

	require.Len(t, doc.ReportingOwners, 1)
	owner := doc.ReportingOwners[0]
	assert.Equal(t, "DOE JANE", owner.ID.Name)
	assert.True(t, bool(owner.Relationship.IsOfficer))
	assert.False(t, bool(owner.Relationship.IsDirector))
	assert.Equal(t, "Chief Financial Officer", owner.Relationship.OfficerTitle)

	require.NotNil(t, doc.NonDerivativeTable)
	require.Len(t, doc.NonDerivativeTable.Transactions, 1)
	txn := doc.NonDerivativeTable.Transactions[0]
	assert.Equal(t, "Common Stock", txn.SecurityTitle)
	assert.Equal(t, "S", txn.Coding.Code)
	assert.Equal(t, "D", txn.Amounts.AcquiredDisposed)

	shares := txn.Amounts.Shares.Int64Ptr()
	require.NotNil(t, shares)
	assert.Equal(t, int64(1500), *shares)

	price := txn.Amounts.PricePerShare.Float64Ptr()
	require.NotNil(t, price)
	assert.Equal(t, 185.25, *price)
}

func TestParseOwnershipDocumentInvalid(t *testing.T) {
	_, err := insider.ParseOwnershipDocument([]byte("<ownershipDocument><unclosed>"))
	assert.Error(t, err)
}

func TestFlagTokens(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"1", true},
		{"Y", true},
		{"y", true},
		{"yes", true},
		{"YES", true},
		{"true", true},
		{"TRUE", true},
		{" true ", true},
		{"0", false},
		{"N", false},
		{"false", false},
		{"", false},
		{"2", false},
	}
	for _, tc := range tests {
		xmlDoc := fmt.Sprintf(`<ownershipDocument><reportingOwner><reportingOwnerRelationship><isDirector>%s</isDirector></reportingOwnerRelationship></reportingOwner></ownershipDocument>`, tc.token)
		doc, err := insider.ParseOwnershipDocument([]byte(xmlDoc))
		require.NoError(t, err, "token %q", tc.token)
		require.Len(t, doc.ReportingOwners, 1)
		assert.Equal(t, tc.want, bool(doc.ReportingOwners[0].Relationship.IsDirector), "token %q", tc.token)
	}
}

func TestValueParsing(t *testing.T) {
	tests := []struct {
		raw       string
		wantFloat *float64
		wantInt   *int64
	}{
		{"1,234.5", ptrFloat(1234.5), ptrInt(1235)},
		{"1500", ptrFloat(1500), ptrInt(1500)},
		{"  42  ", ptrFloat(42), ptrInt(42)},
		{"", nil, nil},
		{"n/a", nil, nil},
		{"12x", nil, nil},
	}
	for _, tc := range tests {
		v := insider.Value{Value: tc.raw}
		gotF := v.Float64Ptr()
		gotI := v.Int64Ptr()
		if tc.wantFloat == nil {
			assert.Nil(t, gotF, "Float64Ptr(%q)", tc.raw)
			assert.Nil(t, gotI, "Int64Ptr(%q)", tc.raw)
			continue
		}
		require.NotNil(t, gotF, "Float64Ptr(%q)", tc.raw)
		assert.Equal(t, *tc.wantFloat, *gotF)
		require.NotNil(t, gotI, "Int64Ptr(%q)", tc.raw)
		assert.Equal(t, *tc.wantInt, *gotI)
	}
}

func TestRelationshipLabel(t *testing.T) {
	tests := []struct {
		name string
		rel  insider.Relationship
		want string
	}{
		{"officer only", insider.Relationship{IsOfficer: true}, "Officer"},
		{"director only", insider.Relationship{IsDirector: true}, "Director"},
		{"ten percent", insider.Relationship{IsTenPercentOwner: true}, "10% Owner"},
		{"officer and director", insider.Relationship{IsOfficer: true, IsDirector: true}, "Officer, Director"},
		{"all three", insider.Relationship{IsOfficer: true, IsDirector: true, IsTenPercentOwner: true}, "Officer, Director, 10% Owner"},
		{"other only", insider.Relationship{IsOther: true}, "Other"},
		{"nothing set", insider.Relationship{}, "Other"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rel.Label())
		})
	}
}

func ptrFloat(f float64) *float64 { return &f }
func ptrInt(n int64) *int64       { return &n }
