package insider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoOwnershipDocument marks a filing whose submission carries no
// embedded ownership document and whose accession folder lists no XML
// exhibit. The filing contributes zero records; it is not an error for
// the run.
var ErrNoOwnershipDocument = errors.New("no ownership document found")

// AccessionBaseURL derives the accession directory URL from an index
// submission path. Both archive layouts collapse to the same directory:
//
//	edgar/data/1009759/0001009759-25-000062.txt
//	edgar/data/1009759/0001009759-25-000062/0001009759-25-000062.txt
//
// resolve to .../edgar/data/1009759/0001009759-25-000062/. The collapse
// is idempotent.
func AccessionBaseURL(fileName string) string {
	path := strings.TrimSuffix(fileName, ".txt")
	parts := strings.Split(path, "/")
	if len(parts) >= 2 && parts[len(parts)-1] == parts[len(parts)-2] {
		parts = parts[:len(parts)-1]
	}
	return ArchiveRoot + strings.TrimLeft(strings.Join(parts, "/"), "/") + "/"
}

// directoryManifest mirrors the accession folder's index.json layout.
type directoryManifest struct {
	Directory struct {
		Item []struct {
			Name string `json:"name"`
		} `json:"item"`
	} `json:"directory"`
}

// DocumentStrategy resolves a filing reference to the text of its primary
// ownership document. Archive layout varies by era and form, so two
// strategies exist; StrategyFor picks one from the path shape.
type DocumentStrategy interface {
	ResolveDocument(ctx context.Context, fetcher Fetcher, ref FilingReference) (string, error)
}

// EmbeddedDocument treats the whole submission .txt body as the document
// carrier: one request, and the extractor isolates the ownership XML from
// the SGML wrapper.
type EmbeddedDocument struct{}

func (EmbeddedDocument) ResolveDocument(ctx context.Context, fetcher Fetcher, ref FilingReference) (string, error) {
	body, err := fetcher.Fetch(ctx, ref.FilingURL)
	if err != nil {
		return "", err
	}
	return ExtractOwnershipDocument(body)
}

// ManifestLookup fetches the accession directory's index.json and picks
// an XML exhibit: names hinting at the ownership document ("doc4",
// "ownership") win over other candidates, else the first XML item.
type ManifestLookup struct{}

func (ManifestLookup) ResolveDocument(ctx context.Context, fetcher Fetcher, ref FilingReference) (string, error) {
	url, err := FindOwnershipXMLURL(ctx, fetcher, ref.FileName)
	if err != nil {
		return "", err
	}
	return fetcher.Fetch(ctx, url)
}

// FindOwnershipXMLURL locates the ownership XML exhibit inside a filing's
// accession folder via its JSON directory manifest.
func FindOwnershipXMLURL(ctx context.Context, fetcher Fetcher, fileName string) (string, error) {
	base := AccessionBaseURL(fileName)
	body, err := fetcher.Fetch(ctx, base+"index.json")
	if err != nil {
		return "", err
	}

	var manifest directoryManifest
	if err := json.Unmarshal([]byte(body), &manifest); err != nil {
		return "", fmt.Errorf("parse accession manifest: %w", err)
	}

	var candidates []string
	for _, item := range manifest.Directory.Item {
		if strings.HasSuffix(strings.ToLower(item.Name), ".xml") {
			candidates = append(candidates, item.Name)
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoOwnershipDocument
	}

	name := candidates[0]
	for _, c := range candidates {
		lower := strings.ToLower(c)
		if strings.Contains(lower, "doc4") || strings.Contains(lower, "ownership") {
			name = c
			break
		}
	}
	return base + name, nil
}

// StrategyFor selects the resolution strategy from the submission path
// shape: flat .txt submissions embed their documents, bare accession
// directories resolve through the manifest.
func StrategyFor(fileName string) DocumentStrategy {
	if strings.HasSuffix(strings.ToLower(fileName), ".txt") {
		return EmbeddedDocument{}
	}
	return ManifestLookup{}
}
