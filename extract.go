package insider

import (
	"regexp"
	"strings"
)

var (
	ownershipDocRe = regexp.MustCompile(`(?is)<ownershipDocument.*?</ownershipDocument>`)

	// An XML declaration sitting immediately before the root tag.
	xmlDeclBeforeRe = regexp.MustCompile(`(?is)<\?xml[^>]*\?>\s*$`)
)

const defaultXMLDecl = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"

// ExtractOwnershipDocument isolates the embedded ownership XML from a raw
// submission body. Submissions wrap the document in SGML-style markup
// (<SEC-DOCUMENT>, <DOCUMENT>, <XML> tags), so the scan anchors on the
// ownership root tags, case-insensitively and across lines. The filing's
// own XML declaration is kept verbatim when one immediately precedes the
// root tag; otherwise a standard UTF-8 declaration is synthesized, so the
// result always parses on its own.
func ExtractOwnershipDocument(submission string) (string, error) {
	text := normalizeXMLText(submission)

	loc := ownershipDocRe.FindStringIndex(text)
	if loc == nil {
		return "", ErrNoOwnershipDocument
	}
	doc := text[loc[0]:loc[1]]

	if decl := xmlDeclBeforeRe.FindString(text[:loc[0]]); decl != "" {
		return strings.TrimSpace(decl) + "\n" + doc, nil
	}
	return defaultXMLDecl + doc, nil
}

// normalizeXMLText clears the text-level noise SEC submissions carry
// before any tag scanning: stray entities, non-breaking and zero-width
// characters, CRLF line endings.
func normalizeXMLText(text string) string {
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, "\u200b", "")
	text = strings.ReplaceAll(text, "\ufeff", "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}
