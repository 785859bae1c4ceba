// Package auth decodes identity tokens issued by the upstream identity
// provider.
//
// Tokens are decoded WITHOUT signature or expiry verification. The claims are
// only ever used to key per-user documents and to prefill profile fields, and
// the upstream provider is the sole issuer the deployment talks to. This is a
// known limitation carried over deliberately; adding verification would
// reject tokens the current system accepts.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidToken reports a token whose payload segment cannot be decoded or
// that carries no subject.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity carried in a token payload.
type Claims struct {
	Sub        string `json:"sub"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	Picture    string `json:"picture,omitempty"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
}

// DecodeUnverified extracts the claims from a compact JWT without verifying
// its signature. It is the single place identity tokens are decoded; handlers
// must not parse tokens themselves.
func DecodeUnverified(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if claims.Sub == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// FirstName returns the given-name claim, falling back to the first
// whitespace-separated field of the name claim.
func (c Claims) FirstName() string {
	if c.GivenName != "" {
		return c.GivenName
	}
	fields := strings.Fields(c.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// LastName returns the family-name claim, falling back to the last
// whitespace-separated field of the name claim when the name contains more
// than one field.
func (c Claims) LastName() string {
	if c.FamilyName != "" {
		return c.FamilyName
	}
	fields := strings.Fields(c.Name)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-1]
}

// Profile renders the claims as the baseline user document shared by the
// login upsert, the dashboard response and the profile endpoint.
func (c Claims) Profile() map[string]any {
	return map[string]any{
		"id":        c.Sub,
		"email":     c.Email,
		"name":      c.Name,
		"picture":   c.Picture,
		"firstName": c.FirstName(),
		"lastName":  c.LastName(),
	}
}
