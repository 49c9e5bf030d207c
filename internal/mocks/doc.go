// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout
// the application, so individual test files do not need to define their own
// inline fakes for common collaborators.
//
// Usage:
//
//	import "github.com/logspool/logspool/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    jwtService := &mocks.MockJWTService{Token: "mocked-token"}
//	    // Use the mock in your test...
//	}
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
