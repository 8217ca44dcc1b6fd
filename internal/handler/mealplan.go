package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/vitaltrack/internal/auth"
	"github.com/sakif/vitaltrack/internal/model"
)

// MealPlanService is the part of service.MealPlanService the handlers use.
type MealPlanService interface {
	Today(ctx context.Context, userID int64) (*model.MealPlan, error)
	MarkEaten(ctx context.Context, userID, itemID int64) error
}

type MealPlanHandler struct {
	svc    MealPlanService
	logger *slog.Logger
}

func NewMealPlanHandler(svc MealPlanService, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{svc: svc, logger: logger}
}

// HandleToday returns today's plan, generating it on first request.
//
// HTTP: GET /api/meal-plan
func (h *MealPlanHandler) HandleToday(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.Today(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// HandleEat marks a plan item eaten and logs it.
//
// HTTP: POST /api/meal-plan/{id}/eat
func (h *MealPlanHandler) HandleEat(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.MarkEaten(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
