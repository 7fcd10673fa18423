package relay

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

// Client talks to a relay server. It implements core.NotionRelay,
// core.Transcriber and core.RemotePreferences.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the relay at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 2 * time.Minute},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreatePage sends page to the Notion relay.
func (c *Client) CreatePage(ctx context.Context, page core.NotionPage) error {
	var out notionResponse
	if err := c.do(ctx, http.MethodPost, PathSendToNotion, "", page, &out); err != nil {
		return err
	}
	if !out.Success {
		return fmt.Errorf("relay did not confirm the Notion page")
	}
	return nil
}

// Transcribe sends audio to the transcription relay.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("no audio provided")
	}
	req := transcribeRequest{Audio: base64.StdEncoding.EncodeToString(audio)}
	var out transcribeResponse
	if err := c.do(ctx, http.MethodPost, PathTranscribe, "", req, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// Load fetches the preference record for userID.
func (c *Client) Load(ctx context.Context, userID string) (core.RemoteRecord, error) {
	var rec core.RemoteRecord
	if err := c.do(ctx, http.MethodGet, PathPreferences, userID, nil, &rec); err != nil {
		return core.RemoteRecord{}, err
	}
	return rec, nil
}

// Store writes the preference record for userID.
func (c *Client) Store(ctx context.Context, userID string, rec core.RemoteRecord) error {
	body := preferenceBody{StorageService: rec.StorageService}
	if !rec.UpdatedAt.IsZero() {
		t := rec.UpdatedAt
		body.UpdatedAt = &t
	}
	return c.do(ctx, http.MethodPut, PathPreferences, userID, body, nil)
}

func (c *Client) do(ctx context.Context, method, path, userID string, in, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("relay URL not configured: %w", core.ErrUnavailable)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logger.Debug("relay call", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound && path == PathPreferences {
		return fmt.Errorf("preferences for %q: %w", userID, core.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		if err := json.Unmarshal(respBody, &e); err == nil && e.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: e.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("relay returned status %d", resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

var (
	_ core.NotionRelay       = (*Client)(nil)
	_ core.Transcriber       = (*Client)(nil)
	_ core.RemotePreferences = (*Client)(nil)
	_ core.Transcriber       = (*WhisperClient)(nil)
)
