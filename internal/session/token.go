package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the fields of the service-issued JWT the dashboard cares about
type TokenClaims struct {
	Username  string
	ExpiresAt time.Time
}

// InspectToken decodes the token claims without verifying the signature. The
// prediction service holds the secret and verifies the token on every call.
func InspectToken(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	out := &TokenClaims{}
	if name, ok := claims["username"].(string); ok {
		out.Username = name
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time.UTC()
	}
	return out, nil
}
