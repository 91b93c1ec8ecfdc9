// internal/pkg/token/token.go
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the storefront JWT claims. The upstream API signs
// these tokens; this service never holds the signing secret, so claims
// are peeked without signature verification and only ever used to
// short-circuit obviously dead sessions before a network call. The
// upstream API remains the authority on token validity.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Peek parses a token without verifying its signature and returns the claims
func Peek(tokenString string) (*Claims, error) {
	parser := jwt.NewParser()

	claims := &Claims{}
	_, _, err := parser.ParseUnverified(tokenString, claims)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	return claims, nil
}

// IsExpired reports whether the token carries an exp claim in the past.
// Malformed tokens count as expired; tokens without exp do not.
func IsExpired(tokenString string) bool {
	claims, err := Peek(tokenString)
	if err != nil {
		return true
	}

	if claims.ExpiresAt == nil {
		return false
	}

	return claims.ExpiresAt.Before(time.Now().UTC())
}

// ExtractFromHeader extracts a bearer token from an Authorization header
func ExtractFromHeader(authHeader string) string {
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}
