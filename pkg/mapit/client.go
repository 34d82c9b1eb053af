// Package mapit queries the MapIt point-lookup API to resolve coordinates
// to administrative region codes. MapIt's usage terms require attribution;
// callers must surface that whenever a lookup is used.
package mapit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public MapIt instance.
const DefaultBaseURL = "https://global.mapit.mysociety.org"

// Client resolves points to region codes.
type Client interface {
	// Region returns an ISO 3166-2 code of an area covering the point,
	// or "" when MapIt knows nothing about it. When several covering
	// areas carry a code, the choice is stable for a given response but
	// otherwise arbitrary (MapIt does not report area extents).
	Region(ctx context.Context, lat, lon float64) (string, error)
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithRateLimit caps lookups per second. The public instance throttles
// aggressively, so the default is deliberately low.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Client against the given MapIt base URL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(1, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type area struct {
	Name  string            `json:"name"`
	Type  string            `json:"type"`
	Codes map[string]string `json:"codes"`
}

func (c *client) Region(ctx context.Context, lat, lon float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/point/4326/%g,%g", c.baseURL, lon, lat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", eris.Wrap(err, "mapit: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "mapit: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("mapit: API returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "mapit: read response")
	}
	var areas map[string]area
	if err := json.Unmarshal(body, &areas); err != nil {
		return "", eris.Wrap(err, "mapit: decode response")
	}

	// Areas come keyed by numeric id; iterate in sorted key order so the
	// answer is stable for a given response.
	keys := make([]string, 0, len(areas))
	for k := range areas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if code, ok := areas[k].Codes["iso3166_2"]; ok && code != "" {
			return code, nil
		}
	}
	return "", nil
}
