package monetized

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTier(t *testing.T) {
	tests := []struct {
		name string
		want Tier
	}{
		{"free", TierFree},
		{"basic", TierBasic},
		{"pro", TierPro},
		{"enterprise", TierEnterprise},
		{"platinum", TierUnknown},
		{"Pro", TierUnknown},
		{"unknown", TierUnknown},
		{"", TierUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTier(tt.name))
		})
	}
}

func TestTier_String(t *testing.T) {
	assert.Equal(t, "enterprise", TierEnterprise.String())
	assert.Equal(t, "unknown", TierUnknown.String())
	assert.Equal(t, "unknown", Tier(42).String())
}

func TestTier_Paid(t *testing.T) {
	assert.False(t, TierFree.Paid())
	assert.True(t, TierBasic.Paid())
	assert.True(t, TierUnknown.Paid())
}

func TestRuleFor(t *testing.T) {
	for tier, prefix := range map[Tier]string{
		TierBasic:      "bsc_",
		TierPro:        "pro_",
		TierEnterprise: "ent_",
	} {
		rule, ok := RuleFor(tier)
		assert.True(t, ok, tier.String())
		assert.Equal(t, prefix, rule.Prefix)
	}

	for _, tier := range []Tier{TierFree, TierUnknown, Tier(-1), Tier(99)} {
		_, ok := RuleFor(tier)
		assert.False(t, ok, "tier %d", tier)
	}
}

func TestCredentialRule_Match(t *testing.T) {
	rule, _ := RuleFor(TierBasic)

	tests := []struct {
		key  string
		want bool
	}{
		{"bsc_0123456789abcdef", true},
		{"bsc_0123456789ABCDEF", false},
		{"pro_0123456789abcdef", false},
		{"bsc_0123456789abcde", false},
		{"bsc_0123456789abcdef0", false},
		{"xbsc_0123456789abcdef", false},
		{"bsc_0123456789abcdeg", false},
		{"bsc_0123456789abcdef\n", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rule.Match(tt.key), "key %q", tt.key)
	}

	assert.False(t, CredentialRule{Prefix: "bsc_"}.Match("bsc_0123456789abcdef"))
}
