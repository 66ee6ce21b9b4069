package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// Council key builders
func (kb *KeyBuilder) KeyCampaigns(filter string) string {
	return kb.BuildKey(fmt.Sprintf(KeyCouncilCampaigns, filter))
}

func (kb *KeyBuilder) KeyCampaignByID(campaignID int64) string {
	return kb.BuildKey(fmt.Sprintf(KeyCouncilCampaign, campaignID))
}

func (kb *KeyBuilder) KeyCampaignNominees(campaignID int64) string {
	return kb.BuildKey(fmt.Sprintf(KeyCouncilNominees, campaignID))
}

// Storefront key builders
func (kb *KeyBuilder) KeyStoreInformation() string {
	return kb.BuildKey(KeyStoreInformation)
}

func (kb *KeyBuilder) KeyStoreCategories() string {
	return kb.BuildKey(KeyStoreCategories)
}

func (kb *KeyBuilder) KeyStoreCategory(categoryID int64) string {
	return kb.BuildKey(fmt.Sprintf(KeyStoreCategory, categoryID))
}

func (kb *KeyBuilder) KeyStorePackage(packageID int64) string {
	return kb.BuildKey(fmt.Sprintf(KeyStorePackage, packageID))
}

// Discord directory key builders
func (kb *KeyBuilder) KeyMemberRoles(discordID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyDiscordMemberRoles, discordID))
}

func (kb *KeyBuilder) KeyGuildRoles() string {
	return kb.BuildKey(KeyDiscordGuildRoles)
}

func (kb *KeyBuilder) KeyGuildMembers() string {
	return kb.BuildKey(KeyDiscordGuildMembers)
}

// Generic key builders for custom patterns
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	key := fmt.Sprintf(pattern, args...)
	return kb.BuildKey(key)
}
