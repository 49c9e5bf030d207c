package api

import (
	"net/http"

	"github.com/logspool/logspool/internal/api/shared"
	"github.com/logspool/logspool/internal/sched"
	"github.com/logspool/logspool/internal/spool"
)

// SpoolHandler exposes spool control operations: explicit flush, local dump,
// and buffer statistics.
type SpoolHandler struct {
	spool  *spool.Spool
	worker *sched.Worker
}

// NewSpoolHandler creates a new SpoolHandler with the given dependencies.
func NewSpoolHandler(sp *spool.Spool, worker *sched.Worker) *SpoolHandler {
	return &SpoolHandler{
		spool:  sp,
		worker: worker,
	}
}

// StatsResponse combines buffer and scheduler counters.
type StatsResponse struct {
	Spool     spool.Stats `json:"spool"`
	Scheduler sched.Stats `json:"scheduler"`
}

// Flush handles the /api/spool/flush endpoint. It schedules an urgent flush
// and returns immediately; the flush itself runs on the worker.
func (h *SpoolHandler) Flush(w http.ResponseWriter, r *http.Request) {
	if err := h.spool.RequestFlush(); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, FlushResponse{Status: "flush scheduled"})
}

// Dump handles the /api/spool/dump endpoint. The dump runs at low priority so
// it never delays pending appends or flushes, and it does not clear the buffer.
func (h *SpoolHandler) Dump(w http.ResponseWriter, r *http.Request) {
	if err := h.spool.RequestDump(); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, DumpResponse{Status: "dump scheduled"})
}

// Stats handles the /api/spool/stats endpoint.
func (h *SpoolHandler) Stats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, StatsResponse{
		Spool:     h.spool.Stats(),
		Scheduler: h.worker.Stats(),
	})
}
