package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	openaiBaseURL = "https://api.openai.com/v1"
	whisperModel  = "whisper-1"
)

// ErrNoAPIKey is returned when transcription is attempted without a key.
var ErrNoAPIKey = errors.New("OpenAI API key not set")

// WhisperClient transcribes audio with the OpenAI transcription endpoint.
type WhisperClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type whisperResponse struct {
	Text string `json:"text"`
}

type openaiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// NewWhisperClient creates a client. An empty baseURL means the public API.
func NewWhisperClient(apiKey, baseURL string) *WhisperClient {
	if baseURL == "" {
		baseURL = openaiBaseURL
	}
	return &WhisperClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// Transcribe uploads audio and returns the recognized text.
func (c *WhisperClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}
	if len(audio) == 0 {
		return "", errors.New("no audio provided")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "audio.webm")
	if err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if err := w.WriteField("model", whisperModel); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr openaiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("OpenAI API error: %s", apiErr.Error.Message)}
		}
		return "", &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("OpenAI API error: status %d", resp.StatusCode)}
	}

	var out whisperResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return out.Text, nil
}
