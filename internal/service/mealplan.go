package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/vitaltrack/internal/apperror"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/nutrition"
	"github.com/sakif/vitaltrack/internal/repository"
	"github.com/sakif/vitaltrack/internal/streak"
)

// TargetSource supplies the daily calorie target a plan is sized to.
// *ProfileService implements it.
type TargetSource interface {
	DailyTarget(ctx context.Context, userID int64) (int, error)
}

// MealPlanService builds one meal plan per user per day and records eaten items.
type MealPlanService struct {
	plans   repository.MealPlanRepository
	foods   repository.FoodRepository
	targets TargetSource
	logger  *slog.Logger
	now     func() time.Time
}

func NewMealPlanService(
	plans repository.MealPlanRepository,
	foods repository.FoodRepository,
	targets TargetSource,
	logger *slog.Logger,
) *MealPlanService {
	return &MealPlanService{
		plans:   plans,
		foods:   foods,
		targets: targets,
		logger:  logger,
		now:     time.Now,
	}
}

// Today returns the caller's plan for today, generating and storing it on
// the first request of the day. A stored plan keeps the items and the target
// it was built for, even if the profile changes later that day.
func (s *MealPlanService) Today(ctx context.Context, userID int64) (*model.MealPlan, error) {
	date := model.DateOf(s.now())

	plan, err := s.plans.GetPlan(ctx, userID, date)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("loading meal plan for user %d: %w", userID, err)
	}

	target, err := s.targets.DailyTarget(ctx, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.foods.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	// Nothing to plan from: answer with an empty plan and store nothing, so
	// the next request tries again.
	entries := nutrition.BuildPlan(target, catalog)
	if len(entries) == 0 {
		return &model.MealPlan{Date: date, Target: target, Items: []model.MealPlanItem{}}, nil
	}

	plan, err = s.plans.CreatePlanIfAbsent(ctx, userID, date, target, entries)
	if err != nil {
		return nil, fmt.Errorf("storing meal plan for user %d: %w", userID, err)
	}
	s.logger.Info("meal plan generated",
		slog.Int64("userID", userID),
		slog.String("date", date),
		slog.Int("target", plan.Target),
		slog.Int("items", len(plan.Items)),
	)
	return plan, nil
}

// MarkEaten flags a plan item as eaten and logs it as today's food, which
// advances the streak like any other log. Repeating the call is a no-op.
func (s *MealPlanService) MarkEaten(ctx context.Context, userID, itemID int64) error {
	now := s.now()
	logged, err := s.plans.MarkEaten(ctx, userID, itemID, model.DateOf(now), streak.ForUser(userID, now))
	if err != nil {
		return err
	}
	if logged {
		s.logger.Info("meal plan item eaten", slog.Int64("userID", userID), slog.Int64("itemID", itemID))
	}
	return nil
}
