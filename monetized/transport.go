package monetized

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/CloudNativeWorks/monetized-sdk/monetized/log"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "monetized-sdk-go/1.0"
	maxResponseBytes = 1 << 20 // 1 MB
)

// Transport performs the network request of a Call. Post sends body as JSON
// to url and returns the raw JSON response, or an error if the request
// could not be completed.
type Transport interface {
	Post(ctx context.Context, url string, body any) (json.RawMessage, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, url string, body any) (json.RawMessage, error)

func (f TransportFunc) Post(ctx context.Context, url string, body any) (json.RawMessage, error) {
	return f(ctx, url, body)
}

// HTTPTransport is the default Transport. It issues a single JSON POST per
// call and never retries.
type HTTPTransport struct {
	httpClient *http.Client
	timeout    time.Duration // applied after all options
	userAgent  string
	logger     log.Logger
}

// NewHTTPTransport creates an HTTP transport with a 10s timeout.
func NewHTTPTransport(opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		logger:    log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.httpClient == nil {
		t.httpClient = &http.Client{}
	}
	t.httpClient.Timeout = t.timeout
	return t
}

// Post marshals body, sends it to url and returns the response body.
// Non-2xx responses are returned as *HTTPError.
func (t *HTTPTransport) Post(ctx context.Context, url string, body any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	t.logger.Debug("response received",
		log.String("request_id", requestID),
		log.Int("status", resp.StatusCode),
		log.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return nil, parseHTTPError(resp.StatusCode, respBody)
	}

	if !json.Valid(respBody) {
		return nil, fmt.Errorf("decode response: invalid JSON body (%d bytes)", len(respBody))
	}
	return json.RawMessage(respBody), nil
}

// parseHTTPError parses the error envelope:
// {"error": {"code": "...", "message": "..."}}
func parseHTTPError(statusCode int, body []byte) error {
	var errResp struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == nil {
		return &HTTPError{
			StatusCode: statusCode,
			Code:       "UNKNOWN",
			Message:    string(body),
		}
	}
	return &HTTPError{
		StatusCode: statusCode,
		Code:       errResp.Error.Code,
		Message:    errResp.Error.Message,
	}
}
