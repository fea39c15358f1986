package insider_test

import (
	"context"
	"fmt"

	insider "github.com/RxDataLab/edgar-insider"
)

// fakeFetcher serves canned bodies keyed by URL and records every request
// it sees. URLs without a canned body come back as ErrNotAvailable, the
// same signal a missing archive resource produces.
type fakeFetcher struct {
	responses map[string]string
	calls     []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	body, ok := f.responses[url]
	if !ok {
		return "", fmt.Errorf("%w: %s", insider.ErrNotAvailable, url)
	}
	return body, nil
}
