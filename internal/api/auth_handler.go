package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/logspool/logspool/internal/api/shared"
	"github.com/logspool/logspool/internal/redact"
	"github.com/logspool/logspool/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	jwtService    auth.JWTService
	apiKeys       auth.APIKeyVerifier
	tokenLifetime time.Duration
	validator     *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	jwtService auth.JWTService,
	apiKeys auth.APIKeyVerifier,
	tokenLifetime time.Duration,
) *AuthHandler {
	return &AuthHandler{
		jwtService:    jwtService,
		apiKeys:       apiKeys,
		tokenLifetime: tokenLifetime,
		validator:     validator.New(),
	}
}

// Token handles the /api/auth/token endpoint. A producer exchanges its API
// key for a short-lived JWT used on the ingest and spool endpoints.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid client_id")
		return
	}

	if err := h.apiKeys.Verify(req.APIKey); err != nil {
		if errors.Is(err, auth.ErrInvalidAPIKey) {
			shared.RespondWithErrorAndLog(
				w, r,
				http.StatusUnauthorized,
				"Invalid credentials",
				err,
				shared.WithElevatedLogLevel(),
			)
			return
		}
		slog.Error("failed to verify API key", "error", redact.Error(err))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), clientID)
	if err != nil {
		slog.Error("failed to generate token", "error", redact.Error(err), "client_id", clientID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(h.tokenLifetime).UTC().Format(time.RFC3339),
	})
}
