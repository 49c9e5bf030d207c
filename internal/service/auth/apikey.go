package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// APIKeyVerifier checks a presented API key against the configured secret.
type APIKeyVerifier interface {
	// Verify returns nil when the key matches, ErrInvalidAPIKey otherwise.
	Verify(key string) error
}

// BcryptVerifier implements APIKeyVerifier against a bcrypt hash, so the
// plaintext key never appears in configuration.
type BcryptVerifier struct {
	hash []byte
}

// NewBcryptVerifier creates a verifier for the given bcrypt hash.
func NewBcryptVerifier(hash string) (*BcryptVerifier, error) {
	if hash == "" {
		return nil, fmt.Errorf("api key hash is required")
	}
	return &BcryptVerifier{hash: []byte(hash)}, nil
}

// Verify implements APIKeyVerifier using bcrypt comparison.
func (v *BcryptVerifier) Verify(key string) error {
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(key)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidAPIKey
		}
		return fmt.Errorf("api key comparison failed: %w", err)
	}
	return nil
}

// HashAPIKey produces a bcrypt hash for an API key. Used by the hash
// generator command to produce the value for LOGSPOOL_AUTH_API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(hash), nil
}
