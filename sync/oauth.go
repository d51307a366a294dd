// ABOUTME: OAuth configuration and token management for the Google Sheets API
// ABOUTME: Handles the read-only OAuth flow and token storage at XDG paths
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// SheetsReadonlyScope is the only scope leadbook asks for.
const SheetsReadonlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

// OAuthCallbackPath is where the local auth server receives the code.
const OAuthCallbackPath = "/oauth/callback"

// NewOAuthConfig creates OAuth2 config for the Sheets API.
// Client credentials come from GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.
func NewOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  "http://localhost:8080" + OAuthCallbackPath,
		Scopes:       []string{SheetsReadonlyScope},
		Endpoint:     google.Endpoint,
	}
}

// TokenPath returns XDG-compliant path for storing OAuth tokens.
func TokenPath() string {
	return filepath.Join(xdg.DataHome, "leadbook", "google-token.json")
}

// SaveToken saves OAuth token to XDG data directory.
func SaveToken(token *oauth2.Token) error {
	path := TokenPath()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}

// LoadToken loads OAuth token from XDG data directory.
func LoadToken() (*oauth2.Token, error) {
	f, err := os.Open(TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	return &token, nil
}

// GetOAuthConfig returns the OAuth config, or an error when client
// credentials are missing.
func GetOAuthConfig() (*oauth2.Config, error) {
	config := NewOAuthConfig()

	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, fmt.Errorf("google OAuth credentials not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables")
	}

	return config, nil
}

// TokenClient returns an auto-refreshing HTTP client for a stored token, or
// nil when no token is available.
func TokenClient(ctx context.Context) *http.Client {
	token, err := LoadToken()
	if err != nil {
		return nil
	}
	return NewOAuthConfig().Client(ctx, token)
}
