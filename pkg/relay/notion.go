package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

const (
	notionBaseURL = "https://api.notion.com/v1"
	// NotionVersion is the API version header sent with every request.
	NotionVersion = "2022-06-28"
	// notionTextLimit is the maximum length of one rich text item.
	notionTextLimit = 2000
)

// NotionClient creates pages through the Notion public API. The API key is
// supplied per page, so one client serves every user.
type NotionClient struct {
	baseURL string
	client  *http.Client
}

type notionText struct {
	Type string `json:"type,omitempty"`
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
}

type notionSelect struct {
	Name string `json:"name"`
}

type notionRequest struct {
	Parent struct {
		DatabaseID string `json:"database_id"`
	} `json:"parent"`
	Properties struct {
		Name struct {
			Title []notionText `json:"title"`
		} `json:"Name"`
		Tags struct {
			MultiSelect []notionSelect `json:"multi_select"`
		} `json:"Tags"`
	} `json:"properties"`
	Children []notionBlock `json:"children"`
}

type notionBlock struct {
	Object    string `json:"object"`
	Type      string `json:"type"`
	Paragraph struct {
		RichText []notionText `json:"rich_text"`
	} `json:"paragraph"`
}

type notionError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewNotionClient creates a client for baseURL. An empty baseURL means the
// public API.
func NewNotionClient(baseURL string) *NotionClient {
	if baseURL == "" {
		baseURL = notionBaseURL
	}
	return &NotionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// CreatePage creates one database page: title in Name, tags in Tags and the
// content as a single paragraph block. It returns the created page as sent
// back by Notion.
func (c *NotionClient) CreatePage(ctx context.Context, page core.NotionPage) (json.RawMessage, error) {
	if strings.TrimSpace(page.APIKey) == "" || strings.TrimSpace(page.DatabaseID) == "" {
		return nil, core.ErrMissingCredentials
	}

	body, err := json.Marshal(buildNotionRequest(page))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+page.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", NotionVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr notionError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("Notion API error: %d %s", resp.StatusCode, apiErr.Message)}
		}
		return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("Notion API error: %d", resp.StatusCode)}
	}
	if !json.Valid(respBody) {
		return nil, errors.New("notion API returned invalid JSON")
	}
	return json.RawMessage(respBody), nil
}

func buildNotionRequest(page core.NotionPage) notionRequest {
	var r notionRequest
	r.Parent.DatabaseID = page.DatabaseID
	r.Properties.Name.Title = []notionText{newText("", truncateRunes(page.Title, notionTextLimit))}
	r.Properties.Tags.MultiSelect = make([]notionSelect, 0, len(page.Tags))
	for _, tag := range page.Tags {
		// Notion rejects commas in select options.
		name := strings.ReplaceAll(tag, ",", " ")
		r.Properties.Tags.MultiSelect = append(r.Properties.Tags.MultiSelect, notionSelect{Name: name})
	}

	block := notionBlock{Object: "block", Type: "paragraph"}
	for _, chunk := range splitRunes(page.Content, notionTextLimit) {
		block.Paragraph.RichText = append(block.Paragraph.RichText, newText("text", chunk))
	}
	if block.Paragraph.RichText == nil {
		block.Paragraph.RichText = []notionText{newText("text", "")}
	}
	r.Children = []notionBlock{block}
	return r
}

func newText(typ, content string) notionText {
	t := notionText{Type: typ}
	t.Text.Content = content
	return t
}

// truncateRunes keeps at most n runes of s.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// splitRunes cuts s into pieces of at most n runes.
func splitRunes(s string, n int) []string {
	var out []string
	runes := []rune(s)
	for len(runes) > 0 {
		end := min(n, len(runes))
		out = append(out, string(runes[:end]))
		runes = runes[end:]
	}
	return out
}

// APIError is a non-2xx answer from an upstream or relay API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}
