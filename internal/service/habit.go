package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/repository"
)

// HabitInput is the POST /habits body.
type HabitInput struct {
	Name string `json:"habit_name" validate:"required,max=100"`
}

// HabitService manages the caller's habits for today.
type HabitService struct {
	habits repository.HabitRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewHabitService(habits repository.HabitRepository, logger *slog.Logger) *HabitService {
	return &HabitService{habits: habits, logger: logger, now: time.Now}
}

// Today lists the caller's habits dated today.
func (s *HabitService) Today(ctx context.Context, userID int64) ([]model.Habit, error) {
	habits, err := s.habits.ListHabits(ctx, userID, model.DateOf(s.now()))
	if err != nil {
		return nil, fmt.Errorf("listing habits for user %d: %w", userID, err)
	}
	return habits, nil
}

// Create adds an uncompleted habit for today and returns its id.
func (s *HabitService) Create(ctx context.Context, userID int64, in HabitInput) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return 0, err
	}

	h := &model.Habit{UserID: userID, Name: in.Name, Date: model.DateOf(s.now())}
	if err := s.habits.CreateHabit(ctx, h); err != nil {
		return 0, fmt.Errorf("creating habit for user %d: %w", userID, err)
	}

	s.logger.Info("habit created", slog.Int64("userID", userID), slog.Int64("habitID", h.ID))
	return h.ID, nil
}

// SetCompleted sets the completion flag. Habits owned by someone else are
// reported as not found.
func (s *HabitService) SetCompleted(ctx context.Context, userID, habitID int64, completed bool) error {
	if err := s.habits.SetHabitCompleted(ctx, userID, habitID, completed); err != nil {
		return err
	}
	s.logger.Debug("habit updated",
		slog.Int64("userID", userID),
		slog.Int64("habitID", habitID),
		slog.Bool("completed", completed),
	)
	return nil
}
