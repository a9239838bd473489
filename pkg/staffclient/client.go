// Package staffclient is the Go client used by staff-facing frontends to talk
// to the back-office API: receipt submission and the chat cost estimator.
package staffclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/conserv-tt/conserv-backend/types"
)

const defaultTimeout = 30 * time.Second

// Client talks to the staff API using a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Tests use this to
// inject an httptest transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a staff API client for the given base URL and token.
func New(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiError is the server's failure envelope.
type apiError struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// postJSON sends the request body and decodes the response into out. Server
// failures surface as errors carrying the server's message.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// The failure envelope wins over the status code: a body with ok:false
	// carries the server's message even on a 2xx response.
	var e apiError
	if json.Unmarshal(respBody, &e) == nil && !e.OK && e.Error != "" {
		return fmt.Errorf("%s", e.Error)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unexpected server response")
	}
	return nil
}

// ReceiptResult is the outcome of a successful receipt submission.
type ReceiptResult struct {
	ID       int64
	PrintURL string
	WA       *types.WADispatchStatus
}

// SubmitReceipt posts the bill as a receipt. An empty bill fails locally
// without touching the network. On success the returned result carries the
// print-view URL for the new receipt.
func (c *Client) SubmitReceipt(ctx context.Context, payload types.ReceiptPayload) (*ReceiptResult, error) {
	if len(payload.Lines) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	var resp types.CreateReceiptResponse
	if err := c.postJSON(ctx, "/api/staff/receipts", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("receipt was not created")
	}

	return &ReceiptResult{
		ID:       resp.ID,
		PrintURL: fmt.Sprintf("%s/staff/receipts/%d/print", c.baseURL, resp.ID),
		WA:       resp.WA,
	}, nil
}
