package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logspool/logspool/internal/mocks"
	"github.com/logspool/logspool/internal/service/auth"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	clientID := uuid.New()

	tests := []struct {
		name        string
		authHeader  string
		validateErr error
		claims      *auth.Claims
		wantStatus  int
		wantNext    bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer valid-token",
			claims:     &auth.Claims{ClientID: clientID},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			authHeader: "NotBearer token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "expired token",
			authHeader:  "Bearer expired-token",
			validateErr: auth.ErrExpiredToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "invalid token",
			authHeader:  "Bearer bad-token",
			validateErr: auth.ErrInvalidToken,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "unexpected validation error",
			authHeader:  "Bearer broken",
			validateErr: assert.AnError,
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := &mocks.MockJWTService{
				Claims:      tt.claims,
				ValidateErr: tt.validateErr,
			}
			middleware := NewAuthMiddleware(jwtService)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true

				gotID, ok := GetClientID(r)
				require.True(t, ok, "client ID should be in context")
				assert.Equal(t, clientID, gotID)

				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("POST", "/api/logs", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			recorder := httptest.NewRecorder()
			middleware.Authenticate(next).ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
		})
	}
}

func TestGetClientIDMissing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	_, ok := GetClientID(req)
	assert.False(t, ok)
}
