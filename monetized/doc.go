// Package monetized provides a license-gated client for the monetized
// processing API.
//
// Install with:
//
//	go get github.com/CloudNativeWorks/monetized-sdk/monetized
//
// Every call is a two-step pipeline: the license key is checked against the
// credential rule of the configured tier, and only when it matches is the
// payload posted to <endpoint>/process through the client's Transport.
//
// # Quick Start
//
//	client, err := monetized.New(monetized.Config{
//	    LicenseKey: "pro_0123456789abcdef",
//	    Tier:       "pro",
//	})
//	if err != nil {
//	    return err
//	}
//	resp, err := client.Call(ctx, map[string]any{"text": "hello"})
//
// # Tiers
//
// The free tier needs no license key. Paid tiers require a key at
// construction time, but its format is only checked when a call is made:
//
//   - basic:      bsc_ followed by 16 lowercase hex characters
//   - pro:        pro_ followed by 16 lowercase hex characters
//   - enterprise: ent_ followed by 16 lowercase hex characters
//
// # Transport
//
// The default transport is an HTTPTransport. Tests and embedders can supply
// their own through WithTransport; the client performs no retries and
// defines no timeouts of its own.
package monetized
