// Package ocr implements chatio.TextExtractor against an external OCR
// sidecar over HTTP. The engine itself (tesseract or anything else behind
// the same endpoint) is a black box: image bytes in, extracted text out.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds one OCR round trip. OCR on a large photo can take
// seconds; without a bound a stuck sidecar would pin message processing.
const DefaultTimeout = 30 * time.Second

// Client calls the OCR sidecar. Implements chatio.TextExtractor.
type Client struct {
	baseURL string
	http    *http.Client
}

// response is the sidecar's JSON reply.
type response struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// NewClient creates a client for the sidecar at baseURL. httpClient may be
// nil, in which case a client with DefaultTimeout is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Extract sends the image to the sidecar and returns the recognized text.
// langHints are joined with "+" the way tesseract expects, e.g. "rus+eng".
func (c *Client) Extract(ctx context.Context, image []byte, langHints []string) (string, error) {
	endpoint := c.baseURL + "/ocr"
	if len(langHints) > 0 {
		endpoint += "?langs=" + url.QueryEscape(strings.Join(langHints, "+"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("ocr: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("ocr: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr: sidecar returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("ocr: decode response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ocr: sidecar error: %s", parsed.Error)
	}
	return parsed.Text, nil
}
