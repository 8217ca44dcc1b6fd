// Package repository declares the storage interfaces the services depend on.
// internal/repository/sqlite is the only implementation; service tests use fakes.
package repository

import (
	"context"

	"github.com/sakif/vitaltrack/internal/model"
)

// StreakFunc computes the next streak state from the stored one. A nil
// StreakFunc means the write must leave the streak untouched.
type StreakFunc func(prev model.StreakState) model.StreakState

// UserRepository stores accounts and their profiles.
type UserRepository interface {
	// CreateUser returns apperror.ErrConflict when the username is taken.
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// UpsertGitHubUser returns the account linked to githubID, creating it on first sign-in.
	UpsertGitHubUser(ctx context.Context, githubID int64, login string) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, p model.Profile) error
}

// FoodRepository covers the catalog, food logs and the aggregates over them.
type FoodRepository interface {
	SearchCatalog(ctx context.Context, query string, limit int) ([]model.FoodCatalogEntry, error)
	ListCatalog(ctx context.Context) ([]model.FoodCatalogEntry, error)
	// RecordFoodLog inserts entry and applies advance to the owner's streak in
	// one transaction. It returns the streak state after the write.
	RecordFoodLog(ctx context.Context, entry *model.FoodLogEntry, advance StreakFunc) (model.StreakState, error)
	ListFoodLogs(ctx context.Context, userID int64, date string) ([]model.FoodLogEntry, error)
	DailyTotals(ctx context.Context, userID int64, limit int) ([]model.DailyTotal, error)
}

// HabitRepository stores per-day habits.
type HabitRepository interface {
	ListHabits(ctx context.Context, userID int64, date string) ([]model.Habit, error)
	CreateHabit(ctx context.Context, h *model.Habit) error
	// SetHabitCompleted returns apperror.ErrNotFound when the habit does not
	// exist or belongs to another user.
	SetHabitCompleted(ctx context.Context, userID, habitID int64, completed bool) error
}

// JournalRepository stores the append-only journal.
type JournalRepository interface {
	CreateJournalEntry(ctx context.Context, e *model.JournalEntry) error
	// ListJournal returns the user's entries newest first.
	ListJournal(ctx context.Context, userID int64) ([]model.JournalEntry, error)
}

// MealPlanRepository stores generated daily plans.
type MealPlanRepository interface {
	// GetPlan returns the stored plan, including the target it was generated
	// for, or apperror.ErrNotFound.
	GetPlan(ctx context.Context, userID int64, date string) (*model.MealPlan, error)
	// CreatePlanIfAbsent stores target and entries as the plan for (userID, date)
	// unless a plan already exists, and returns whichever plan is stored afterwards.
	CreatePlanIfAbsent(ctx context.Context, userID int64, date string, target int, entries []model.PlanEntry) (*model.MealPlan, error)
	// MarkEaten flags the item eaten and logs it on date, advancing the streak.
	// It reports false without logging when the item was already eaten, and
	// returns apperror.ErrNotFound for items the user does not own.
	MarkEaten(ctx context.Context, userID, itemID int64, date string, advance StreakFunc) (bool, error)
}
