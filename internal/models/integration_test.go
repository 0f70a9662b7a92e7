package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "****", MaskSecret("12345678"))
	assert.Equal(t, "sk-a...wxyz", MaskSecret("sk-abcdefghijklmnopqrstuvwxyz"))
}

func TestCredentialsValidateForProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider IntegrationProvider
		creds    Credentials
		wantErr  bool
	}{
		{"openai key without prefix", ProviderOpenAI, Credentials{APIKey: "abc123"}, true},
		{"openai key with prefix", ProviderOpenAI, Credentials{APIKey: "sk-abc123"}, false},
		{"gemini key too short", ProviderGemini, Credentials{APIKey: "short"}, true},
		{"gemini key long enough", ProviderGemini, Credentials{APIKey: "AIzaSyA1234567890abcdef"}, false},
		{"wordpress missing app password", ProviderWordPress, Credentials{SiteURL: "https://blog.example.com", Username: "admin"}, true},
		{"wordpress complete", ProviderWordPress, Credentials{SiteURL: "https://blog.example.com", Username: "admin", AppPassword: "xxxx yyyy"}, false},
		{"twitter without token", ProviderTwitter, Credentials{}, true},
		{"twitter with token", ProviderTwitter, Credentials{OAuth: &oauth2.Token{AccessToken: "tok"}}, false},
		{"linkedin without urn", ProviderLinkedIn, Credentials{OAuth: &oauth2.Token{AccessToken: "tok"}}, true},
		{"linkedin complete", ProviderLinkedIn, Credentials{OAuth: &oauth2.Token{AccessToken: "tok"}, PersonURN: "AbC123"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.ValidateForProvider(tt.provider)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, IsCode(err, CodeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaskedPreview(t *testing.T) {
	creds := Credentials{
		APIKey:   "sk-abcdefghijklmnop",
		SiteURL:  "https://blog.example.com",
		Username: "admin",
	}
	preview := creds.MaskedPreview()

	assert.Equal(t, "sk-a...mnop", preview["api_key"])
	assert.Equal(t, "https://blog.example.com", preview["site_url"])
	assert.Equal(t, "admin", preview["username"])
	assert.NotContains(t, preview, "access_token")
}
