package oidcauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the claims read from a bearer token
type Claims struct {
	jwt.RegisteredClaims
	Email *string `json:"email,omitempty"`
}

// ParsedClaims represents parsed and validated claims
type ParsedClaims struct {
	Subject   string
	Email     *string
	Issuer    string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func newParsedClaims(c *Claims) *ParsedClaims {
	parsed := &ParsedClaims{
		Subject:  c.Subject,
		Email:    c.Email,
		Issuer:   c.Issuer,
		Audience: []string(c.Audience),
	}
	if c.IssuedAt != nil {
		parsed.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		parsed.ExpiresAt = c.ExpiresAt.Time
	}
	return parsed
}

// HasEmail reports whether the token carried an email claim
func (c *ParsedClaims) HasEmail() bool {
	return c.Email != nil && *c.Email != ""
}
