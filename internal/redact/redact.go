// Package redact provides utilities for scrubbing sensitive information from
// strings before they are logged or returned in error responses. Errors that
// bubble up from the database driver or the collector client can embed
// connection strings, credentials, or tokens; this package keeps those out of
// log output and API bodies.
package redact

import "regexp"

// Redaction placeholders.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	KeyPlaceholder        = "[REDACTED_KEY]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	HostPlaceholder       = "[REDACTED_HOST]"
)

var (
	// Connection strings with embedded credentials, e.g. postgres://user:pw@host.
	connStringRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|amqp|redis)://[^@\s]+@`)

	// Password or secret assignments in free-form error text.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|secret)([=:\s]['"]?)[^'"&\s]{3,}`)

	// API keys and bearer tokens.
	apiKeyRegex = regexp.MustCompile(`(?i)(api[_-]?key|token|bearer)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	// Standard three-part base64url JWT.
	jwtRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// host:port endpoints, e.g. a collector address inside an HTTP client error.
	hostPortRegex = regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}:\d{1,5}\b`)
)

var replacements = []struct {
	pattern     *regexp.Regexp
	placeholder string
}{
	{connStringRegex, CredentialPlaceholder},
	{passwordRegex, CredentialPlaceholder},
	{apiKeyRegex, KeyPlaceholder},
	{jwtRegex, JWTPlaceholder},
	{hostPortRegex, HostPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range replacements {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
// A nil error yields an empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
