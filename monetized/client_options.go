package monetized

import (
	"strings"

	"github.com/CloudNativeWorks/monetized-sdk/monetized/log"
)

// Option configures a Client.
type Option func(*Client)

// WithTransport sets the transport used for calls. Default is an
// HTTPTransport with default options.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithLogger sets the logger for call dispatch diagnostics.
// Errors are returned to the caller, never logged.
func WithLogger(l log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records call outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithEndpoint overrides the API base URL from the Config. An empty value
// is ignored.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if e := strings.TrimRight(endpoint, "/"); e != "" {
			c.endpoint = e
		}
	}
}
