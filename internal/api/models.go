package api

// Common request/response structures

// IngestEntry is a single log record in an ingest request.
type IngestEntry struct {
	Level   string            `json:"level"   validate:"required,oneof=debug info warn error"`
	Message string            `json:"message" validate:"required,max=65536"`
	Source  string            `json:"source"  validate:"max=256"`
	Attrs   map[string]string `json:"attrs"`
}

// IngestRequest defines the payload for the log ingest endpoint.
type IngestRequest struct {
	Entries []IngestEntry `json:"entries" validate:"required,min=1,max=1000,dive"`
}

// IngestResponse defines the successful response for the log ingest endpoint.
type IngestResponse struct {
	// Accepted is the number of entries queued for spooling
	Accepted int `json:"accepted"`
}

// TokenRequest defines the payload for the token exchange endpoint.
type TokenRequest struct {
	// ClientID identifies the producer requesting access
	ClientID string `json:"client_id" validate:"required,uuid"`

	// APIKey is the shared secret exchanged for a short-lived token
	APIKey string `json:"api_key" validate:"required"`
}

// TokenResponse defines the successful response for the token exchange endpoint.
type TokenResponse struct {
	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// FlushResponse acknowledges that a flush was scheduled.
type FlushResponse struct {
	Status string `json:"status"`
}

// DumpResponse acknowledges that a buffer dump was scheduled.
type DumpResponse struct {
	Status string `json:"status"`
}
