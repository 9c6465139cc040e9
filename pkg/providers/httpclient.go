package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout     = 60 * time.Second
	maxErrorBodyBytes  = 4096
	defaultMaxIdle     = 10
	defaultIdleTimeout = 90 * time.Second
)

// Client is the shared HTTP layer for vendor adapters. It performs exactly
// one request per call and maps vendor failures onto the typed errors in this
// package; retry and failover decisions are made above it.
type Client struct {
	provider string
	http     *http.Client
}

// NewClient builds a pooled client for one provider. A zero timeout uses the
// default.
func NewClient(provider string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		provider: provider,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdle,
				MaxIdleConnsPerHost: defaultMaxIdle,
				IdleConnTimeout:     defaultIdleTimeout,
			},
		},
	}
}

// PostJSON sends body as JSON to url with the given headers and decodes a 2xx
// response into out. Non-2xx statuses come back as typed errors; the model
// argument is only used to classify model-not-found responses.
func (c *Client) PostJSON(ctx context.Context, url, model string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &ProviderError{Provider: c.provider, Model: model, Message: "encoding request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &ProviderError{Provider: c.provider, Model: model, Message: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return &TimeoutError{Provider: c.provider, Err: err}
		}
		return &ProviderError{Provider: c.provider, Model: model, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classifyStatus(resp, model)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Provider: c.provider, Model: model, Err: err}
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	if t, ok := c.http.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	return nil
}

func (c *Client) classifyStatus(resp *http.Response, model string) error {
	snippet, code := readErrorBody(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Provider: c.provider}
	case http.StatusTooManyRequests:
		return &RateLimitError{Provider: c.provider, RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case http.StatusNotFound:
		return &ModelNotFoundError{Provider: c.provider, Model: model}
	}
	if code == "model_not_found" || strings.Contains(snippet, "model_not_found") {
		return &ModelNotFoundError{Provider: c.provider, Model: model}
	}
	return &ProviderError{
		Provider:   c.provider,
		Model:      model,
		StatusCode: resp.StatusCode,
		Message:    snippet,
	}
}

// readErrorBody captures a bounded snippet of a failure body and, when the
// body is the usual {"error": {...}} envelope, its machine-readable code.
func readErrorBody(r io.Reader) (snippet, code string) {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil || len(data) == 0 {
		return "", ""
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if json.Unmarshal(data, &envelope) == nil && envelope.Error.Message != "" {
		code = envelope.Error.Code
		if code == "" {
			code = envelope.Error.Type
		}
		return envelope.Error.Message, code
	}
	return strings.TrimSpace(string(data)), ""
}

func parseRetryAfter(header string) int {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return secs
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return int(d.Seconds())
		}
	}
	return 0
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
