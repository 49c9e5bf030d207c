package mocks

import (
	"github.com/logspool/logspool/internal/service/auth"
)

// MockAPIKeyVerifier implements auth.APIKeyVerifier for testing
type MockAPIKeyVerifier struct {
	// ShouldSucceed determines whether verification should succeed
	ShouldSucceed bool

	// VerifyFn allows for custom verification logic in tests
	VerifyFn func(key string) error

	// VerifyCalledWith stores the key passed to Verify for verification
	VerifyCalledWith string

	// VerifyCallCount tracks how many times Verify was called
	VerifyCallCount int
}

// Verify implements the auth.APIKeyVerifier interface
func (m *MockAPIKeyVerifier) Verify(key string) error {
	m.VerifyCalledWith = key
	m.VerifyCallCount++

	if m.VerifyFn != nil {
		return m.VerifyFn(key)
	}

	if m.ShouldSucceed {
		return nil
	}
	return auth.ErrInvalidAPIKey
}
