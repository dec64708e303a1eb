// Package agent is a client for agent-delegation APIs: the caller names an
// agent, hands it a task description, and receives the agent's structured
// output in a "data" envelope.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultTimeout = 60 * time.Second

// Client delegates tasks to a named remote agent.
type Client interface {
	Delegate(ctx context.Context, task Task) (*Result, error)
}

// Task is the request body for POST /delegate.
type Task struct {
	Agent string `json:"agent"`
	Task  string `json:"task"`
	// Timeout is the agent-side budget in seconds.
	Timeout int `json:"timeout"`
}

// Result is the delegation envelope. Data is left undecoded.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("agent: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
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

// NewClient creates a delegation client for the API rooted at baseURL.
func NewClient(apiKey, baseURL string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Delegate(ctx context.Context, task Task) (*Result, error) {
	body, err := json.Marshal(task)
	if err != nil {
		return nil, eris.Wrap(err, "agent: marshal task")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/delegate", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "agent: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "agent: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "agent: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "agent: unmarshal response")
	}
	if len(result.Data) == 0 || string(result.Data) == "null" {
		msg := result.Error
		if msg == "" {
			msg = "empty data"
		}
		return nil, eris.Errorf("agent: delegation returned no data: %s", msg)
	}

	return &result, nil
}
