// Package branddev fetches company brand assets (logo, colors, description)
// from the Brand.dev retrieve API.
package branddev

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://api.brand.dev/v1"
	defaultTimeout = 10 * time.Second
)

// Client retrieves brand data for a domain.
type Client interface {
	Retrieve(ctx context.Context, domain string) (*Brand, error)
}

// Brand is the subset of the retrieve response we use.
type Brand struct {
	Domain      string     `json:"domain"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Slogan      string     `json:"slogan"`
	Colors      []Color    `json:"colors"`
	Logos       []Logo     `json:"logos"`
	Industries  Industries `json:"industries"`
}

// Color is a named brand color.
type Color struct {
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

// Logo is a logo asset.
type Logo struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Mode string `json:"mode"`
}

// Industries holds EIC industry classifications.
type Industries struct {
	EIC []Industry `json:"eic"`
}

// Industry is a single industry classification.
type Industry struct {
	Industry    string `json:"industry"`
	Subindustry string `json:"subindustry"`
}

type retrieveResponse struct {
	Status string `json:"status"`
	Brand  Brand  `json:"brand"`
	Code   int    `json:"code"`
}

// ErrNotFound is returned when Brand.dev has no record for the domain.
var ErrNotFound = eris.New("branddev: brand not found")

// APIError is returned for unexpected non-200 responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("branddev: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Brand.dev client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Retrieve(ctx context.Context, domain string) (*Brand, error) {
	u := c.baseURL + "/brand/retrieve?domain=" + url.QueryEscape(domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "branddev: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "branddev: send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "branddev: read response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out retrieveResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "branddev: unmarshal response")
	}
	if out.Brand.Domain == "" {
		out.Brand.Domain = domain
	}
	return &out.Brand, nil
}

var wwwPrefix = regexp.MustCompile(`^www\.`)

// LookupDomain reduces a domain or URL to the bare host Brand.dev indexes.
func LookupDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	host := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Host
	} else if i := strings.IndexAny(raw, "/?#"); i >= 0 {
		host = raw[:i]
	}
	return wwwPrefix.ReplaceAllString(strings.ToLower(host), "")
}
