package models

import (
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// IntegrationProvider identifies an external service an integration connects to.
type IntegrationProvider string

const (
	ProviderGemini     IntegrationProvider = "gemini"
	ProviderOpenAI     IntegrationProvider = "openai"
	ProviderClaude     IntegrationProvider = "claude"
	ProviderWordPress  IntegrationProvider = "wordpress"
	ProviderTwitter    IntegrationProvider = "twitter"
	ProviderLinkedIn   IntegrationProvider = "linkedin"
	ProviderElevenLabs IntegrationProvider = "elevenlabs"
	ProviderHeyGen     IntegrationProvider = "heygen"
)

// AIProviders lists providers usable for text generation, in preference order.
var AIProviders = []IntegrationProvider{ProviderGemini, ProviderOpenAI, ProviderClaude}

// IsValidProvider reports whether p is a known integration provider.
func IsValidProvider(p IntegrationProvider) bool {
	switch p {
	case ProviderGemini, ProviderOpenAI, ProviderClaude, ProviderWordPress,
		ProviderTwitter, ProviderLinkedIn, ProviderElevenLabs, ProviderHeyGen:
		return true
	}
	return false
}

// Credentials is the decrypted credential payload of an integration. Only
// the fields a given provider needs are populated.
type Credentials struct {
	APIKey      string        `json:"api_key,omitempty"`
	SiteURL     string        `json:"site_url,omitempty"`
	Username    string        `json:"username,omitempty"`
	AppPassword string        `json:"app_password,omitempty"`
	OAuth       *oauth2.Token `json:"oauth,omitempty"`
	PersonURN   string        `json:"person_urn,omitempty"`
	VoiceID     string        `json:"voice_id,omitempty"`
	AvatarID    string        `json:"avatar_id,omitempty"`
}

// MaskSecret renders a secret safe for display: first and last four
// characters with the middle elided, or fully masked when too short.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

// MaskedPreview returns display-safe versions of every populated secret.
func (c *Credentials) MaskedPreview() map[string]string {
	out := make(map[string]string)
	if c.APIKey != "" {
		out["api_key"] = MaskSecret(c.APIKey)
	}
	if c.AppPassword != "" {
		out["app_password"] = MaskSecret(c.AppPassword)
	}
	if c.OAuth != nil && c.OAuth.AccessToken != "" {
		out["access_token"] = MaskSecret(c.OAuth.AccessToken)
	}
	if c.SiteURL != "" {
		out["site_url"] = c.SiteURL
	}
	if c.Username != "" {
		out["username"] = c.Username
	}
	return out
}

// ValidateForProvider applies provider-specific credential format checks.
func (c *Credentials) ValidateForProvider(p IntegrationProvider) error {
	switch p {
	case ProviderOpenAI:
		if !strings.HasPrefix(c.APIKey, "sk-") {
			return NewValidationError("OpenAI API keys must start with sk-", "api_key")
		}
	case ProviderGemini:
		if len(c.APIKey) < 20 {
			return NewValidationError("Gemini API key appears too short", "api_key")
		}
	case ProviderClaude, ProviderElevenLabs, ProviderHeyGen:
		if c.APIKey == "" {
			return NewValidationError("API key is required", "api_key")
		}
	case ProviderWordPress:
		if c.SiteURL == "" || c.Username == "" || c.AppPassword == "" {
			return NewValidationError("WordPress requires site URL, username and application password", "credentials")
		}
	case ProviderTwitter:
		if c.OAuth == nil || c.OAuth.AccessToken == "" {
			return NewValidationError("Twitter requires an OAuth access token", "oauth")
		}
	case ProviderLinkedIn:
		if c.OAuth == nil || c.OAuth.AccessToken == "" || c.PersonURN == "" {
			return NewValidationError("LinkedIn requires an OAuth access token and person URN", "oauth")
		}
	}
	return nil
}

// IntegrationMeta holds non-secret display information about the connected
// account.
type IntegrationMeta struct {
	AccountName string `json:"account_name,omitempty"`
	AccountType string `json:"account_type,omitempty"`
	Picture     string `json:"picture,omitempty"`
}

// Integration is a user's connection to an external provider. Credentials
// are stored encrypted at rest and never serialized back to clients.
type Integration struct {
	ID              string              `json:"id" badgerhold:"key"`
	UserID          string              `json:"user_id" badgerhold:"index"`
	Provider        IntegrationProvider `json:"provider" badgerhold:"index"`
	EncryptedSecret string              `json:"-"`
	Meta            IntegrationMeta     `json:"meta"`
	IsActive        bool                `json:"is_active"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
