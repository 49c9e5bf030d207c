package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/logspool/logspool/internal/api/shared"
	"github.com/logspool/logspool/internal/domain"
	"github.com/logspool/logspool/internal/store"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryHandler serves persisted entries back out of the database sink.
type HistoryHandler struct {
	entries store.EntryStore
}

// NewHistoryHandler creates a new HistoryHandler with the given dependencies.
func NewHistoryHandler(entries store.EntryStore) *HistoryHandler {
	return &HistoryHandler{
		entries: entries,
	}
}

// HistoryResponse defines the response for the recent entries endpoint.
type HistoryResponse struct {
	Entries []domain.Entry `json:"entries"`

	// CountLast24h is the number of entries persisted in the last 24 hours.
	CountLast24h int64 `json:"count_last_24h"`
}

// Recent handles the /api/logs/recent endpoint. It reads only what already
// reached the database sink; buffered entries are not visible here.
func (h *HistoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := h.entries.GetRecentEntries(r.Context(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	count, err := h.entries.CountEntriesSince(r.Context(), time.Now().Add(-24*time.Hour))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if entries == nil {
		entries = []domain.Entry{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HistoryResponse{
		Entries:      entries,
		CountLast24h: count,
	})
}
