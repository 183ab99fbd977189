// Package supabase implements store.Store against a hosted PostgREST API
// (the Supabase REST interface): tables profiles and words plus the
// add_points and increment_word_count RPCs.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"kelime/internal/store"
)

const serviceName = "supabase"

// APIError is a PostgREST error body
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("status %d: %s (%s)", e.Status, e.Message, e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Client talks to the REST endpoint of one project
type Client struct {
	restURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ store.Store = (*Client)(nil)

// New creates a client for the project at projectURL
// (https://<ref>.supabase.co). A nil httpClient uses http.DefaultClient.
func New(projectURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		restURL:    strings.TrimRight(projectURL, "/") + "/rest/v1",
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// returnRows asks PostgREST to echo the affected rows
	returnRows bool
}

// do sends req and decodes a 2xx JSON body into out when out is non-nil
func (c *Client) do(ctx context.Context, op string, req request, out any) error {
	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	u := c.restURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return c.external(op, err)
	}
	httpReq.Header.Set("apikey", c.apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.returnRows {
		httpReq.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.external(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if len(raw) > 0 && json.Unmarshal(raw, apiErr) != nil {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return c.external(op, apiErr)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.external(op, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (c *Client) external(op string, err error) error {
	return &store.ExternalError{Service: serviceName, Op: op, Err: err}
}

// eq builds a PostgREST equality filter value
func eq(v string) string {
	return "eq." + v
}
