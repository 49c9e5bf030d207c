package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/logspool/logspool/internal/api/middleware"
	"github.com/logspool/logspool/internal/api/shared"
	"github.com/logspool/logspool/internal/domain"
	"github.com/logspool/logspool/internal/spool"
)

// IngestHandler handles log ingestion API requests.
type IngestHandler struct {
	spool     *spool.Spool
	validator *validator.Validate
}

// NewIngestHandler creates a new IngestHandler with the given dependencies.
func NewIngestHandler(sp *spool.Spool) *IngestHandler {
	return &IngestHandler{
		spool:     sp,
		validator: validator.New(),
	}
}

// Ingest handles the /api/logs endpoint. Entries are validated, stamped with
// the authenticated client as source when none is given, and appended to the
// spool. Appends are scheduled work, so success means accepted, not shipped.
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	clientID, _ := middleware.GetClientID(r)

	accepted := 0
	for _, in := range req.Entries {
		level, err := domain.ParseLevel(in.Level)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
			return
		}

		source := in.Source
		if source == "" {
			source = clientID.String()
		}

		entry, err := domain.NewEntry(level, in.Message, source, in.Attrs)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
			return
		}

		if err := h.spool.Append(*entry); err != nil {
			status := MapErrorToStatusCode(err)
			opts := []shared.ResponseOption{}
			if status == http.StatusTooManyRequests {
				opts = append(opts, shared.WithElevatedLogLevel())
			}
			shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
			return
		}
		accepted++
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, IngestResponse{
		Accepted: accepted,
	})
}
