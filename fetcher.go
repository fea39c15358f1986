package insider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	Version = "0.1.0"

	// ArchiveRoot is the base URL the daily index's submission paths are
	// relative to.
	ArchiveRoot = "https://www.sec.gov/Archives/"

	// DefaultDelay paces requests against the shared archive service.
	// SEC fair-use terms allow at most 10 requests/second; we stay well
	// under that.
	DefaultDelay = 200 * time.Millisecond

	// SecEmailEnvVar is the environment variable name for the SEC contact
	// email.
	SecEmailEnvVar = "SEC_EMAIL"
)

// ErrNotAvailable marks a resource the archive could not serve: a
// transport failure or a non-success status. Missing daily indexes on
// weekends and holidays surface as this error, so callers skip the item
// and continue rather than aborting the run.
var ErrNotAvailable = errors.New("resource not available")

// Fetcher is the document retrieval contract the pipeline depends on.
// Implementations own pacing and retry; the pipeline only sees a body or
// an unavailability signal.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client fetches archive resources with the identification header,
// request pacing, and bounded retries the SEC requires of automated
// access.
type Client struct {
	httpClient    *http.Client
	userAgent     string
	limiter       *rate.Limiter
	maxRetries    uint64
	retryInterval time.Duration
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// WithDelay sets the pacing interval between archive requests.
func WithDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithRetryInterval sets the initial backoff interval for retried
// requests.
func WithRetryInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.retryInterval = d
		}
	}
}

// NewClient builds a Client identified by the given contact email.
// Email is required by SEC and must be a real address.
func NewClient(email string, opts ...ClientOption) (*Client, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	c := &Client{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		userAgent:     BuildUserAgent(email),
		limiter:       rate.NewLimiter(rate.Every(DefaultDelay), 1),
		maxRetries:    2,
		retryInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BuildUserAgent creates a proper SEC User-Agent string.
func BuildUserAgent(email string) string {
	return fmt.Sprintf("edgar-insider/%s (%s)", Version, email)
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail enforces the archive's identification requirement: a real
// contact address that goes into every User-Agent header.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("SEC email required: set %s environment variable or use the -email flag", SecEmailEnvVar)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	if strings.HasSuffix(email, "example.com") {
		return fmt.Errorf("use a real email address, not example.com: %s", email)
	}
	return nil
}

// Fetch retrieves the body at url. Every request waits on the pacing
// limiter first. Transport failures and 429/5xx responses are retried
// with capped exponential backoff; any other non-success status comes
// back immediately as ErrNotAvailable.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var body string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			// fall through to read
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("archive returned status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("%w: status %d for %s", ErrNotAvailable, resp.StatusCode, url))
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = string(data)
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, ErrNotAvailable) {
			return "", err
		}
		// Retries exhausted; the resource is unavailable for this run.
		return "", fmt.Errorf("%w: %v", ErrNotAvailable, err)
	}
	return body, nil
}
