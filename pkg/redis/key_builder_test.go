package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilderEnvironmentPrefix(t *testing.T) {
	tests := []struct {
		environment string
		expected    string
	}{
		{"production", "prod"},
		{"development", "staging"},
		{"staging", "staging"},
		{"", "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.expected, kb.GetPrefix())
		})
	}
}

func TestKeyBuilderCouncilKeys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:council:campaigns:all", kb.KeyCampaigns("all"))
	assert.Equal(t, "prod:council:campaign:12", kb.KeyCampaignByID(12))
	assert.Equal(t, "prod:council:campaign:12:nominees", kb.KeyCampaignNominees(12))
}

func TestKeyBuilderStoreKeys(t *testing.T) {
	kb := NewKeyBuilder("staging")

	assert.Equal(t, "staging:store:information", kb.KeyStoreInformation())
	assert.Equal(t, "staging:store:categories", kb.KeyStoreCategories())
	assert.Equal(t, "staging:store:category:3", kb.KeyStoreCategory(3))
	assert.Equal(t, "staging:store:package:99", kb.KeyStorePackage(99))
}

func TestKeyBuilderDiscordKeys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:discord:member:123456:roles", kb.KeyMemberRoles("123456"))
	assert.Equal(t, "prod:discord:roles:all", kb.KeyGuildRoles())
	assert.Equal(t, "prod:discord:members:all", kb.KeyGuildMembers())
}

func TestKeyBuilderCustom(t *testing.T) {
	kb := NewKeyBuilder("production")
	assert.Equal(t, "prod:ratelimit:10.0.0.1", kb.KeyCustom("ratelimit:%s", "10.0.0.1"))
}
