package monetized

import (
	"net/http"
	"time"

	"github.com/CloudNativeWorks/monetized-sdk/monetized/log"
)

// TransportOption configures an HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient sets a custom HTTP client for the transport.
// The client's Timeout will be overridden by WithTimeout (or the default 10s).
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		t.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout. Default is 10 seconds.
// Option ordering does not matter: timeout is always applied after all options.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *HTTPTransport) {
		t.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with requests.
func WithUserAgent(ua string) TransportOption {
	return func(t *HTTPTransport) {
		t.userAgent = ua
	}
}

// WithTransportLogger sets the logger used for response diagnostics.
func WithTransportLogger(l log.Logger) TransportOption {
	return func(t *HTTPTransport) {
		if l != nil {
			t.logger = l
		}
	}
}
