// Package ocr defines the external text-extraction collaborator. The
// core engines never call it themselves; the pipeline invokes it before
// the engines run and is responsible for timeouts around it.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const extractMaxRetries = 3

// sleepFunc is the sleep used between retries (injectable for tests).
var sleepFunc = time.Sleep

// TextExtractor converts binary document content to plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, content []byte, contentType string) (string, error)
}

// Client talks to an external OCR service over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	maxBytes   int64
}

// NewClient creates an OCR client for the given service endpoint.
func NewClient(endpoint string, timeout time.Duration, maxBytes int64) *Client {
	if maxBytes <= 0 {
		maxBytes = 10_000_000
	}
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBytes: maxBytes,
	}
}

type extractResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// ExtractText posts the document to the OCR service and returns the
// recognized plain text. Transient failures are retried with backoff.
func (c *Client) ExtractText(ctx context.Context, content []byte, contentType string) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("ocr endpoint not configured")
	}

	var lastErr error
	for attempt := 0; attempt < extractMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
			}
			sleepFunc(time.Duration(attempt) * 500 * time.Millisecond)
		}

		text, retryable, err := c.extractOnce(ctx, content, contentType)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return "", fmt.Errorf("extract text: %w", lastErr)
}

func (c *Client) extractOnce(ctx context.Context, content []byte, contentType string) (text string, retryable bool, err error) {
	url := c.endpoint + "/v1/extract"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(content))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("ocr service error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("ocr request rejected (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed extractResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.Error != "" {
		return "", false, fmt.Errorf("ocr service: %s", parsed.Error)
	}

	return parsed.Text, false, nil
}
