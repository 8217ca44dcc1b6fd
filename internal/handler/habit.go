package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/vitaltrack/internal/auth"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/service"
)

// HabitService is the part of service.HabitService the handlers use.
type HabitService interface {
	Today(ctx context.Context, userID int64) ([]model.Habit, error)
	Create(ctx context.Context, userID int64, in service.HabitInput) (int64, error)
	SetCompleted(ctx context.Context, userID, habitID int64, completed bool) error
}

type HabitHandler struct {
	svc    HabitService
	logger *slog.Logger
}

func NewHabitHandler(svc HabitService, logger *slog.Logger) *HabitHandler {
	return &HabitHandler{svc: svc, logger: logger}
}

// truthy accepts true/false as well as the 1/0 and "1"/"0" older clients send.
type truthy bool

func (t *truthy) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = false
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("completed: %q is not a boolean", s)
		}
		*t = truthy(v)
		return nil
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*t = truthy(b[0] == 't')
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("completed: %s is not a boolean", b)
	}
	*t = n != 0
	return nil
}

type setCompletedRequest struct {
	Completed truthy `json:"completed"`
}

// HandleList returns today's habits.
//
// HTTP: GET /api/habits
func (h *HabitHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	habits, err := h.svc.Today(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

// HandleCreate adds a habit for today.
//
// HTTP: POST /api/habits {"habit_name": "Beber agua"} → {"id": 4}
func (h *HabitHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.HabitInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// HandleSetCompleted sets or clears the completion flag.
//
// HTTP: PUT /api/habits/{id} {"completed": true}
// 404 when the habit does not belong to the caller.
func (h *HabitHandler) HandleSetCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req setCompletedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.SetCompleted(r.Context(), auth.UserIDFromContext(r.Context()), id, bool(req.Completed)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
