// Package auth provides token-based authentication for the ops endpoints:
// clients exchange the shared API key for a short-lived JWT and present it
// as a bearer token afterwards.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Claims holds the validated claims extracted from a token.
type Claims struct {
	// ClientID identifies the token holder; it is minted at token issue
	// time and useful for correlating a client's requests in logs.
	ClientID uuid.UUID

	// TokenID is the unique ID of the token itself.
	TokenID string
}

// JWTService defines the operations for issuing and validating tokens.
type JWTService interface {
	// GenerateToken creates a signed token for the given client.
	GenerateToken(ctx context.Context, clientID uuid.UUID) (string, error)

	// ValidateToken verifies a token and returns its claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, or ErrInvalidToken on
	// failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}
