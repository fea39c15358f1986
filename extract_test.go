package insider_test

import (
	"errors"
	"strings"
	"testing"

	insider "github.com/RxDataLab/edgar-insider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractOwnershipDocumentKeepsDeclaration(t *testing.T) {
	submission := `<SEC-DOCUMENT>0001.txt
<DOCUMENT>
<TYPE>4
<XML>
<?xml version="1.0" encoding="ISO-8859-1"?>
<ownershipDocument>
<documentType>4</documentType>
</ownershipDocument>
</XML>
</DOCUMENT>`

	doc, err := insider.ExtractOwnershipDocument(submission)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="ISO-8859-1"?>`))
	assert.True(t, strings.HasSuffix(doc, "</ownershipDocument>"))
}

func TestExtractOwnershipDocumentSynthesizesDeclaration(t *testing.T) {
	submission := "noise before\n<ownershipDocument><documentType>4</documentType></ownershipDocument>\nnoise after"

	doc, err := insider.ExtractOwnershipDocument(submission)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))

	parsed, err := insider.ParseOwnershipDocument([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "4", parsed.DocumentType)
}

func TestExtractOwnershipDocumentCaseInsensitive(t *testing.T) {
	submission := "<OWNERSHIPDOCUMENT><documentType>4</documentType></OWNERSHIPDOCUMENT>"
	doc, err := insider.ExtractOwnershipDocument(submission)
	require.NoError(t, err)
	assert.Contains(t, doc, "documentType")
}

func TestExtractOwnershipDocumentNormalizesNoise(t *testing.T) {
	submission := "<ownershipDocument>\r\n<remarks>a&nbsp;b</remarks>\r\n</ownershipDocument>"
	doc, err := insider.ExtractOwnershipDocument(submission)
	require.NoError(t, err)
	assert.NotContains(t, doc, "\r")
	assert.NotContains(t, doc, "&nbsp;")
}

func TestExtractOwnershipDocumentMissing(t *testing.T) {
	tests := []string{
		"",
		"<DOCUMENT><TYPE>10-K</DOCUMENT>",
		"<ownershipDocument><documentType>4</documentType>", // never closed
	}
	for _, submission := range tests {
		_, err := insider.ExtractOwnershipDocument(submission)
		assert.True(t, errors.Is(err, insider.ErrNoOwnershipDocument), "submission %q", submission)
	}
}
