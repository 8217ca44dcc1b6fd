package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/vitaltrack/internal/auth"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/service"
)

// FoodService is the part of service.FoodService the handlers use.
type FoodService interface {
	Search(ctx context.Context, query string) ([]model.FoodResult, error)
	LogFood(ctx context.Context, userID int64, in service.LogFoodInput) (int, error)
	DailyLogs(ctx context.Context, userID int64) ([]model.FoodLogEntry, error)
	Stats(ctx context.Context, userID int64) ([]model.DailyTotal, error)
}

// FoodHandler serves food search, food logging and the calorie stats.
type FoodHandler struct {
	svc    FoodService
	logger *slog.Logger
}

func NewFoodHandler(svc FoodService, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{svc: svc, logger: logger}
}

// LogFoodResponse reports the streak after the write.
type LogFoodResponse struct {
	Success bool `json:"success"`
	Streak  int  `json:"streak"`
}

// HandleSearch looks a food up locally and externally.
//
// HTTP: GET /api/search-food?q=pollo
// A missing or blank q returns [].
func (h *FoodHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// HandleLogFood records a food for today.
//
// HTTP: POST /api/log-food {"food_name": "Manzana", "calories": 52}
func (h *FoodHandler) HandleLogFood(w http.ResponseWriter, r *http.Request) {
	var in service.LogFoodInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	count, err := h.svc.LogFood(r.Context(), auth.UserIDFromContext(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LogFoodResponse{Success: true, Streak: count})
}

// HandleDailyLogs returns today's food logs.
//
// HTTP: GET /api/daily-logs
func (h *FoodHandler) HandleDailyLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.svc.DailyLogs(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// HandleStats returns per-day calorie totals, newest first.
//
// HTTP: GET /api/stats
func (h *FoodHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.Stats(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}
