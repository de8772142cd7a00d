package auth

import (
	"golang.org/x/oauth2"
)

const (
	// Health gateway OAuth endpoints
	AuthURL  = "https://auth.mendhealth.io/oauth/authorize"
	TokenURL = "https://auth.mendhealth.io/oauth/token"
)

// Scopes required for scoring: raw samples, sleep and workout history
var Scopes = []string{
	"metrics:read", "sleep:read", "workouts:read",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8807/callback"
}

// NewOAuthConfig creates an oauth2.Config from our Config
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  AuthURL,
			TokenURL: TokenURL,
		},
		RedirectURL: cfg.RedirectURL,
		Scopes:      Scopes,
	}
}
