// Package notification implements the client for the WhatsApp messaging
// gateway that alerts the dispatch crew when a receipt is created.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the WhatsApp gateway API.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a WhatsApp gateway client.
func NewClient(apiURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiURL: strings.TrimSuffix(apiURL, "/"),
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// textMessage is the gateway request body for a plain text message.
type textMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// locationMessage is the gateway request body for a location share.
type locationMessage struct {
	To  string  `json:"to"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// gatewayResponse is the gateway's reply envelope.
type gatewayResponse struct {
	OK     bool   `json:"ok"`
	Queued bool   `json:"queued"`
	Error  string `json:"error,omitempty"`
}

// SendText sends a text message to the given number.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	if to == "" {
		return fmt.Errorf("recipient number is required")
	}
	_, err := c.post(ctx, "/messages/text", textMessage{To: to, Body: body})
	return err
}

// QueueLocation queues a location share to the given number. The gateway
// delivers location messages asynchronously; queued reports whether it
// accepted the message for delivery.
func (c *Client) QueueLocation(ctx context.Context, to string, lat, lng float64) (queued bool, err error) {
	if to == "" {
		return false, fmt.Errorf("recipient number is required")
	}
	resp, err := c.post(ctx, "/messages/location", locationMessage{To: to, Lat: lat, Lng: lng})
	if err != nil {
		return false, err
	}
	return resp.Queued, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*gatewayResponse, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var gwResp gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&gwResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if gwResp.Error != "" {
			return &gwResp, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, gwResp.Error)
		}
		return &gwResp, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return &gwResp, nil
}
