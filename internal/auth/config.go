// Package auth implements the Auth0 authorization-code flow. Tokens are
// handed to the browser as cookies; the identity token is decoded but never
// verified, which keeps the backend independent of Auth0 signing keys.
package auth

import (
	"golang.org/x/oauth2"
)

// Config carries the Auth0 tenant settings. AuthURL and TokenURL override
// the tenant-derived endpoints in tests.
type Config struct {
	Domain       string
	ClientID     string
	ClientSecret string
	CallbackURL  string
	Audience     string
	FrontendURL  string

	AuthURL  string
	TokenURL string
}

// Complete reports whether the settings needed to start a login exist.
func (c Config) Complete() bool {
	return c.Domain != "" && c.ClientID != "" && c.CallbackURL != ""
}

func (c Config) authURL() string {
	if c.AuthURL != "" {
		return c.AuthURL
	}
	return "https://" + c.Domain + "/authorize"
}

func (c Config) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return "https://" + c.Domain + "/oauth/token"
}

func (c Config) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.CallbackURL,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.authURL(),
			TokenURL: c.tokenURL(),
		},
	}
}
