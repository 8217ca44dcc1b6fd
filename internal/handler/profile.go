package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/vitaltrack/internal/auth"
	"github.com/sakif/vitaltrack/internal/service"
)

// ProfileService is the part of service.ProfileService the handlers use.
type ProfileService interface {
	Get(ctx context.Context, userID int64) (*service.ProfileView, error)
	Update(ctx context.Context, userID int64, in service.ProfileInput) error
}

type ProfileHandler struct {
	svc    ProfileService
	logger *slog.Logger
}

func NewProfileHandler(svc ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

// HandleGet returns the profile plus "daily_target".
//
// HTTP: GET /api/profile
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Get(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleUpdate replaces the profile. The guest gets a success without a write.
//
// HTTP: PUT /api/profile
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.Update(r.Context(), auth.UserIDFromContext(r.Context()), in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
