package oidc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewProvider_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
	}{
		{"missing client ID", ProviderConfig{ClientSecret: "s", RedirectURL: "r", DiscoveryURL: "d"}},
		{"missing client secret", ProviderConfig{ClientID: "c", RedirectURL: "r", DiscoveryURL: "d"}},
		{"missing redirect URL", ProviderConfig{ClientID: "c", ClientSecret: "s", DiscoveryURL: "d"}},
		{"missing discovery URL", ProviderConfig{ClientID: "c", ClientSecret: "s", RedirectURL: "r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			assert.Error(t, err)
		})
	}
}

func TestMapIDTokenClaims(t *testing.T) {
	f := mapIDTokenClaims(idTokenClaims{
		Sub:        "sub-123",
		Email:      "guest@example.com",
		GivenName:  "Ada",
		FamilyName: "Lovelace",
		Name:       "Ada Lovelace",
	})

	assert.Equal(t, "sub-123", f.subject)
	assert.Equal(t, "guest@example.com", f.email)
	assert.Equal(t, "Ada", f.givenName)
	assert.Equal(t, "Lovelace", f.familyName)
	assert.Equal(t, "Ada Lovelace", f.fullName)
}

func TestFillFromUserInfoClaims_OnlyFillsMissing(t *testing.T) {
	f := idFields{subject: "existing", email: ""}
	fillFromUserInfoClaims(&f, UserInfo{
		Subject:    "ui-sub",
		Email:      "ui@example.com",
		GivenName:  "Grace",
		FamilyName: "Hopper",
		Name:       "Grace Hopper",
	})

	assert.Equal(t, "existing", f.subject)
	assert.Equal(t, "ui@example.com", f.email)
	assert.Equal(t, "Grace", f.givenName)
	assert.Equal(t, "Hopper", f.familyName)
	assert.Equal(t, "Grace Hopper", f.fullName)
}

func TestIDFields_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", idFields{fullName: "Ada Lovelace"}.displayName())
	assert.Equal(t, "Ada Lovelace", idFields{givenName: "Ada", familyName: "Lovelace"}.displayName())
	assert.Equal(t, "Ada", idFields{givenName: "Ada"}.displayName())
	assert.Equal(t, "", idFields{}.displayName())
}

func TestGenerateRandomString(t *testing.T) {
	s1, err := generateRandomString(32)
	require.NoError(t, err)
	assert.Len(t, s1, 32)

	s2, err := generateRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)

	empty, err := generateRandomString(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetIDTokenFromToken(t *testing.T) {
	_, err := getIDTokenFromToken(nil)
	assert.Error(t, err)

	_, err = getIDTokenFromToken(&oauth2.Token{})
	assert.Error(t, err)

	tok := (&oauth2.Token{}).WithExtra(map[string]any{"id_token": "raw-token"})
	raw, err := getIDTokenFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "raw-token", raw)
}

func TestHasOpenIDScope(t *testing.T) {
	p := &Provider{config: &oauth2.Config{Scopes: []string{"openid", "email", "profile"}}}
	assert.True(t, p.hasOpenIDScope())

	p.config.Scopes = []string{"email"}
	assert.False(t, p.hasOpenIDScope())
}
