package monetized

import (
	"errors"
	"fmt"
)

// Sentinel errors for license checks.
var (
	ErrLicenseRequired = errors.New("license key required for paid tiers")
	ErrInvalidLicense  = errors.New("invalid license key")
)

// ConfigError is returned by New when a paid tier is configured without a
// license key. It matches ErrLicenseRequired with errors.Is.
type ConfigError struct {
	Tier string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: tier %q", ErrLicenseRequired, e.Tier)
}

func (e *ConfigError) Unwrap() error {
	return ErrLicenseRequired
}

// InvalidLicenseError is returned by Call when the license key does not match
// the credential rule of the tier, or the tier has no rule. No request is
// sent in that case. It matches ErrInvalidLicense with errors.Is.
type InvalidLicenseError struct {
	Tier string
}

func (e *InvalidLicenseError) Error() string {
	return fmt.Sprintf("%s for tier %q", ErrInvalidLicense, e.Tier)
}

func (e *InvalidLicenseError) Unwrap() error {
	return ErrInvalidLicense
}

// APIError wraps a transport failure of a Call. The underlying error is
// available through errors.As / errors.Unwrap, e.g. an *HTTPError.
type APIError struct {
	URL string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api call %s: %v", e.URL, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPError represents a non-2xx response from the processing API.
// When the body uses the {"error": {"code": "...", "message": "..."}}
// envelope, Code and Message are taken from it; otherwise Code is "UNKNOWN"
// and Message holds the raw body.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server error %d: [%s] %s", e.StatusCode, e.Code, e.Message)
}
