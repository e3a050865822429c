package monetized

// DefaultEndpoint is the processing API base URL used when Config.Endpoint
// is empty.
const DefaultEndpoint = "https://api.yourpackage.com"

// processPath is appended to the endpoint for every call.
const processPath = "/process"

// Config is the client configuration. It is copied by New and never
// changes afterwards.
type Config struct {
	// LicenseKey is the credential for paid tiers. Empty means absent.
	LicenseKey string `json:"license_key,omitempty"`
	// Tier is the tier name. Empty means "free".
	Tier string `json:"tier,omitempty"`
	// Endpoint is the API base URL. Empty means DefaultEndpoint.
	Endpoint string `json:"endpoint,omitempty"`
}

// ProcessRequest is the JSON body posted to <endpoint>/process.
// License is omitted when the client has no key.
type ProcessRequest struct {
	Data    any    `json:"data"`
	License string `json:"license,omitempty"`
	Tier    string `json:"tier"`
}
