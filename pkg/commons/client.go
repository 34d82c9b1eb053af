// Package commons is a minimal MediaWiki Action API client covering what
// metadata reconciliation needs: page text and revision metadata, the
// structured-data statements attached to a file, and saving an edit.
package commons

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/commonsbots/geograph-sync/internal/resilience"
)

// Client exposes the page and structured-data operations the reconciler
// consumes.
type Client interface {
	// Text returns the page's current wikitext.
	Text(ctx context.Context, title string) (string, error)

	// FirstRevisionTime returns the timestamp of the page's first revision.
	FirstRevisionTime(ctx context.Context, title string) (time.Time, error)

	// LatestRevisionID returns the newest revision id.
	LatestRevisionID(ctx context.Context, title string) (int64, error)

	// Statements returns the structured-data statements of the file,
	// keyed by property id.
	Statements(ctx context.Context, title string) (map[string][]Statement, error)

	// Save writes new page text with an edit summary.
	Save(ctx context.Context, title, text, summary string, minor bool) error
}

// Statement is one structured-data statement.
type Statement struct {
	ID       string
	Property string
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithRateLimit caps API requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetry overrides the transient-failure retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *client) {
		c.retry = cfg
	}
}

// WithUserAgent sets the User-Agent header, which the API policy requires
// for bots.
func WithUserAgent(ua string) Option {
	return func(c *client) {
		c.userAgent = ua
	}
}

type client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	retry      resilience.RetryConfig

	mu        sync.Mutex
	csrfToken string
}

// NewClient creates a Client for the given api.php endpoint, e.g.
// "https://commons.wikimedia.org/w/api.php".
func NewClient(baseURL string, opts ...Option) Client {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("commons", "api")
	c := &client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(5, 1),
		userAgent:  "geograph-sync",
		retry:      retry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a rate-limited API GET and decodes the JSON response into
// out, retrying transient failures with backoff.
func (c *client) get(ctx context.Context, params url.Values, out any) error {
	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		return c.getOnce(ctx, params, out)
	})
}

func (c *client) getOnce(ctx context.Context, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "commons: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrap(err, "commons: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("commons: API returned %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(err, resp.StatusCode)
		}
		return err
	}
	return decodeAPI(resp.Body, out)
}

// post performs a rate-limited form POST and decodes the JSON response,
// retrying transient failures with backoff.
func (c *client) post(ctx context.Context, params url.Values, out any) error {
	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		return c.postOnce(ctx, params, out)
	})
}

func (c *client) postOnce(ctx context.Context, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(params.Encode()))
	if err != nil {
		return eris.Wrap(err, "commons: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrap(err, "commons: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("commons: API returned %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(err, resp.StatusCode)
		}
		return err
	}
	return decodeAPI(resp.Body, out)
}

// APIError is a request-level failure reported in the response envelope.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("commons: API error %s: %s", e.Code, e.Info)
}

// apiError is the envelope MediaWiki uses for request-level failures.
type apiError struct {
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

func decodeAPI(r io.Reader, out any) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return eris.Wrap(err, "commons: read response")
	}
	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		apiErr := &APIError{Code: envelope.Error.Code, Info: envelope.Error.Info}
		if resilience.IsTransientAPICode(apiErr.Code) {
			return resilience.NewTransientError(apiErr, 0)
		}
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "commons: decode response")
	}
	return nil
}
