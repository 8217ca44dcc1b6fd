package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/vitaltrack/internal/auth"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/service"
)

// JournalService is the part of service.JournalService the handlers use.
type JournalService interface {
	Write(ctx context.Context, userID int64, in service.JournalInput) error
	List(ctx context.Context, userID int64) ([]model.JournalEntry, error)
}

type JournalHandler struct {
	svc    JournalService
	logger *slog.Logger
}

func NewJournalHandler(svc JournalService, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{svc: svc, logger: logger}
}

// HandleCreate appends an entry dated today.
//
// HTTP: POST /api/journal {"entry": "...", "mood": "happy"}
func (h *JournalHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.JournalInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.Write(r.Context(), auth.UserIDFromContext(r.Context()), in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// HandleList returns all entries, newest first.
//
// HTTP: GET /api/journal
func (h *JournalHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
