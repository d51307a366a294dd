package sync

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestOAuthConfigCreation(t *testing.T) {
	config := NewOAuthConfig()
	require.NotNil(t, config)

	assert.Equal(t, []string{SheetsReadonlyScope}, config.Scopes)
	assert.Contains(t, config.RedirectURL, OAuthCallbackPath)
}

func TestGetOAuthConfig_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	_, err := GetOAuthConfig()
	assert.Error(t, err)

	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	config, err := GetOAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, "id", config.ClientID)
}

func TestTokenPathXDG(t *testing.T) {
	path := TokenPath()

	assert.Equal(t, filepath.Join(xdg.DataHome, "leadbook"), filepath.Dir(path))
	assert.Equal(t, "google-token.json", filepath.Base(path))
}

func TestSaveAndLoadToken(t *testing.T) {
	origHome := xdg.DataHome
	xdg.DataHome = t.TempDir()
	defer func() { xdg.DataHome = origHome }()

	assert.Nil(t, TokenClient(context.Background()), "no token stored yet")

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Round(time.Second),
	}
	require.NoError(t, SaveToken(token))

	loaded, err := LoadToken()
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))

	assert.NotNil(t, TokenClient(context.Background()))
}
