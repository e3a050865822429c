package monetized

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/CloudNativeWorks/monetized-sdk/monetized/credstore"
	"github.com/CloudNativeWorks/monetized-sdk/monetized/log"
)

// Client is a license-gated client for the processing API.
//
// A Client is immutable after New and safe for concurrent use: calls share
// no mutable state and are independent of each other.
type Client struct {
	licenseKey string
	tierName   string
	tier       Tier
	endpoint   string

	transport Transport
	logger    log.Logger
	metrics   *Metrics
}

// New creates a client from cfg. An empty tier means "free" and an empty
// endpoint means DefaultEndpoint.
//
// Any tier other than "free" requires a license key, otherwise New returns a
// *ConfigError. The key's format is not checked here; a malformed key is
// only rejected when a call is made.
func New(cfg Config, opts ...Option) (*Client, error) {
	tierName := cfg.Tier
	if tierName == "" {
		tierName = FreeTier
	}
	if cfg.LicenseKey == "" && tierName != FreeTier {
		return nil, &ConfigError{Tier: tierName}
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		licenseKey: cfg.LicenseKey,
		tierName:   tierName,
		tier:       ParseTier(tierName),
		endpoint:   endpoint,
		logger:     log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport()
	}
	return c, nil
}

// NewFromStore loads the credential called name from store and creates a
// client from it with New.
func NewFromStore(ctx context.Context, store credstore.Store, name string, opts ...Option) (*Client, error) {
	cred, err := store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	return New(Config{
		LicenseKey: cred.LicenseKey,
		Tier:       cred.Tier,
		Endpoint:   cred.Endpoint,
	}, opts...)
}

// Tier returns the parsed tier. Unrecognized tier names yield TierUnknown.
func (c *Client) Tier() Tier {
	return c.tier
}

// TierName returns the tier name as configured. It is sent on the wire
// unchanged.
func (c *Client) TierName() string {
	return c.tierName
}

// Endpoint returns the API base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// MaskedLicenseKey returns the license key masked by MaskLicenseKey, for
// use in logs and output.
func (c *Client) MaskedLicenseKey() string {
	return MaskLicenseKey(c.licenseKey)
}

// ValidateLicense reports whether the license key is acceptable for the
// tier. The free tier always validates. Tiers without a credential rule
// never validate. Otherwise the key must match the rule exactly.
func (c *Client) ValidateLicense() bool {
	if c.tier == TierFree {
		return true
	}
	rule, ok := RuleFor(c.tier)
	if !ok {
		return false
	}
	return rule.Match(c.licenseKey)
}

// Call validates the license and posts payload to <endpoint>/process.
//
// An invalid license returns *InvalidLicenseError without any request being
// made. A transport failure returns *APIError wrapping the transport error.
// On success the response body is returned as received. Calls are never
// retried.
func (c *Client) Call(ctx context.Context, payload any) (json.RawMessage, error) {
	tierLabel := c.tier.String()
	if !c.ValidateLicense() {
		c.metrics.observe(tierLabel, OutcomeInvalidLicense, 0)
		return nil, &InvalidLicenseError{Tier: c.tierName}
	}

	url := c.endpoint + processPath
	body := ProcessRequest{
		Data:    payload,
		License: c.licenseKey,
		Tier:    c.tierName,
	}

	c.logger.Debug("dispatching call",
		log.String("url", url),
		log.String("tier", c.tierName),
		log.String("license", c.MaskedLicenseKey()),
	)

	start := time.Now()
	resp, err := c.transport.Post(ctx, url, body)
	if err != nil {
		c.metrics.observe(tierLabel, OutcomeAPIError, time.Since(start))
		return nil, &APIError{URL: url, Err: err}
	}
	c.metrics.observe(tierLabel, OutcomeOK, time.Since(start))
	return resp, nil
}

// CallInto performs Call and decodes the response into dest.
func (c *Client) CallInto(ctx context.Context, payload, dest any) error {
	resp, err := c.Call(ctx, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// MaskLicenseKey hides key for display. Only a known tier prefix and, for
// keys long enough, the last four characters stay readable.
func MaskLicenseKey(key string) string {
	if key == "" {
		return ""
	}
	prefix, rest := "", key
	for _, r := range credentialRules {
		if r.Prefix != "" && strings.HasPrefix(key, r.Prefix) {
			prefix, rest = r.Prefix, key[len(r.Prefix):]
			break
		}
	}
	if len(rest) <= 8 {
		return prefix + strings.Repeat("*", len(rest))
	}
	return prefix + strings.Repeat("*", len(rest)-4) + rest[len(rest)-4:]
}
