package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims covers the identity fields ticket APIs commonly put in their
// bearer tokens. Unknown fields are ignored.
type Claims struct {
	UserID   string `json:"user_id,omitempty"`
	ID       string `json:"id,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes a credential's claims without verifying its
// signature. The API is the only party able to verify it; the client only
// reads what the token says about the user and its expiry.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse credential claims: %w", err)
	}
	return claims, nil
}

// UserIdentifier returns the first non-empty user identifier in the claims.
func (c *Claims) UserIdentifier() string {
	for _, id := range []string{c.UserID, c.ID, c.RegisteredClaims.Subject} {
		if id != "" {
			return id
		}
	}
	return ""
}

// DisplayName returns the name, falling back to the username.
func (c *Claims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Username
}

// Expired reports whether token is a JWT whose exp lies before now.
// Opaque (non-JWT) credentials and tokens without exp never expire here;
// the API remains the authority on those.
func Expired(token string, now time.Time) bool {
	claims, err := ParseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(now)
}
