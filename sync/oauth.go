// ABOUTME: OAuth configuration and token management for Google APIs
// ABOUTME: Handles the consent flow, token storage at XDG paths, and auto-refresh
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ContactsScope is the only scope requested; contacts are read, never written back.
const ContactsScope = "https://www.googleapis.com/auth/contacts.readonly"

// ErrNotConfigured is returned when the Google client credentials are missing.
var ErrNotConfigured = errors.New("google OAuth credentials not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables")

// NewOAuthConfig creates OAuth2 config for Google APIs from GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.
func NewOAuthConfig() *oauth2.Config {
	redirect := os.Getenv("GOOGLE_REDIRECT_URL")
	if redirect == "" {
		redirect = "http://localhost:8080/oauth/callback"
	}

	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  redirect,
		Scopes:       []string{ContactsScope},
		Endpoint:     google.Endpoint,
	}
}

// ConfiguredOAuth returns the OAuth config or ErrNotConfigured.
func ConfiguredOAuth() (*oauth2.Config, error) {
	config := NewOAuthConfig()
	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, ErrNotConfigured
	}
	return config, nil
}

// TokenPath returns XDG-compliant path for storing OAuth tokens.
func TokenPath() string {
	return filepath.Join(xdg.DataHome, "solocrm", "google-credentials.json")
}

// SaveToken writes the token to path with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
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

// LoadToken reads a token saved by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
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

// AuthURL returns the consent page the user must visit.
func AuthURL(config *oauth2.Config, state string) string {
	return config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the pasted authorization code for a token and saves it.
func Exchange(ctx context.Context, config *oauth2.Config, code, path string) (*oauth2.Token, error) {
	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if err := SaveToken(path, token); err != nil {
		return nil, err
	}
	return token, nil
}
