package monetized

import "regexp"

// Tier is a service level. Paid tiers carry a credential rule.
type Tier int

const (
	// TierUnknown is any tier name this package does not recognize.
	// It has no credential rule, so keys never validate for it.
	TierUnknown Tier = iota
	TierFree
	TierBasic
	TierPro
	TierEnterprise
)

// FreeTier is the tier name used when none is configured.
const FreeTier = "free"

var tierNames = [...]string{
	TierUnknown:    "unknown",
	TierFree:       FreeTier,
	TierBasic:      "basic",
	TierPro:        "pro",
	TierEnterprise: "enterprise",
}

// ParseTier maps a tier name to its Tier. Matching is exact and
// case-sensitive; unrecognized names yield TierUnknown.
func ParseTier(name string) Tier {
	for t, n := range tierNames {
		if Tier(t) != TierUnknown && n == name {
			return Tier(t)
		}
	}
	return TierUnknown
}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return tierNames[TierUnknown]
	}
	return tierNames[t]
}

// Paid reports whether the tier requires a license key.
func (t Tier) Paid() bool {
	return t != TierFree
}

// CredentialRule is the license key format of a paid tier: a fixed prefix
// followed by exactly 16 lowercase hex characters.
type CredentialRule struct {
	Prefix  string
	pattern *regexp.Regexp
}

func newCredentialRule(prefix string) CredentialRule {
	return CredentialRule{
		Prefix:  prefix,
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `[a-f0-9]{16}$`),
	}
}

// Match reports whether key matches the rule over its full length.
func (r CredentialRule) Match(key string) bool {
	if r.pattern == nil {
		return false
	}
	return r.pattern.MatchString(key)
}

// credentialRules is indexed by Tier. Free and unknown tiers have no entry.
var credentialRules = [...]CredentialRule{
	TierBasic:      newCredentialRule("bsc_"),
	TierPro:        newCredentialRule("pro_"),
	TierEnterprise: newCredentialRule("ent_"),
}

// RuleFor returns the credential rule for t. The second result is false for
// the free tier and for unknown tiers.
func RuleFor(t Tier) (CredentialRule, bool) {
	if t < 0 || int(t) >= len(credentialRules) {
		return CredentialRule{}, false
	}
	r := credentialRules[t]
	return r, r.pattern != nil
}
