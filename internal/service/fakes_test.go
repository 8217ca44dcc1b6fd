package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sakif/vitaltrack/internal/apperror"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/nutrition"
	"github.com/sakif/vitaltrack/internal/repository"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================
//
// In-memory implementations of the repository interfaces. Hand-written
// fakes keep each test readable: you can see exactly what the store does.

// fixedNow is the clock every service test runs at.
var fixedNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)

const today = "2026-03-10"

func clock() time.Time { return fixedNow }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errDatabaseDown = errors.New("database is on fire")

// --- users ---

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
	getErr error
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  map[int64]*model.User{model.GuestID: {ID: model.GuestID, Username: model.GuestUsername}},
		nextID: 1,
	}
}

func (f *fakeUserRepo) byName(username string) *model.User {
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			return u
		}
	}
	return nil
}

func (f *fakeUserRepo) insert(username, hash string) *model.User {
	u := &model.User{ID: f.nextID, Username: username, PasswordHash: hash, CreatedAt: fixedNow}
	f.users[u.ID] = u
	f.nextID++
	return u
}

func (f *fakeUserRepo) CreateUser(_ context.Context, username, hash string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byName(username) != nil {
		return 0, apperror.Conflict("username", "username already exists")
	}
	return f.insert(username, hash).ID, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", strconv.FormatInt(id, 10))
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byName(username)
	if u == nil {
		return nil, apperror.NotFound("user", username)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpsertGitHubUser(_ context.Context, githubID int64, login string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.GitHubID != nil && *u.GitHubID == githubID {
			cp := *u
			return &cp, nil
		}
	}
	name := login
	if f.byName(name) != nil {
		name = fmt.Sprintf("%s-gh%d", login, githubID)
	}
	u := f.insert(name, "")
	u.GitHubID = &githubID
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id int64, p model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", strconv.FormatInt(id, 10))
	}
	u.Profile = p
	return nil
}

// --- foods ---

type fakeFoodRepo struct {
	mu        sync.Mutex
	catalog   []model.FoodCatalogEntry
	logs      []model.FoodLogEntry
	streaks   map[int64]model.StreakState
	totals    []model.DailyTotal
	searchErr error
	lastLimit int
}

var _ repository.FoodRepository = (*fakeFoodRepo)(nil)

func newFakeFoodRepo(catalog ...model.FoodCatalogEntry) *fakeFoodRepo {
	return &fakeFoodRepo{catalog: catalog, streaks: map[int64]model.StreakState{}}
}

func (f *fakeFoodRepo) SearchCatalog(_ context.Context, query string, limit int) ([]model.FoodCatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	q := nutrition.Fold(query)
	out := []model.FoodCatalogEntry{}
	for _, e := range f.catalog {
		if strings.Contains(nutrition.Fold(e.Name), q) && (limit <= 0 || len(out) < limit) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeFoodRepo) ListCatalog(context.Context) ([]model.FoodCatalogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.FoodCatalogEntry{}, f.catalog...), nil
}

func (f *fakeFoodRepo) RecordFoodLog(_ context.Context, entry *model.FoodLogEntry, advance repository.StreakFunc) (model.StreakState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, *entry)
	if advance != nil {
		f.streaks[entry.UserID] = advance(f.streaks[entry.UserID])
	}
	return f.streaks[entry.UserID], nil
}

func (f *fakeFoodRepo) ListFoodLogs(_ context.Context, userID int64, date string) ([]model.FoodLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.FoodLogEntry{}
	for _, l := range f.logs {
		if l.UserID == userID && l.Date == date {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeFoodRepo) DailyTotals(_ context.Context, _ int64, limit int) ([]model.DailyTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	return f.totals, nil
}

// fakeLookup stands in for the Edamam client.
type fakeLookup struct {
	mu      sync.Mutex
	byQuery map[string][]model.FoodResult
	err     error
	queries []string
}

func (f *fakeLookup) Search(_ context.Context, query string) ([]model.FoodResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.byQuery[strings.ToLower(query)], nil
}

// --- habits and journal ---

type fakeHabitRepo struct {
	habits []model.Habit
}

var _ repository.HabitRepository = (*fakeHabitRepo)(nil)

func (f *fakeHabitRepo) ListHabits(_ context.Context, userID int64, date string) ([]model.Habit, error) {
	out := []model.Habit{}
	for _, h := range f.habits {
		if h.UserID == userID && h.Date == date {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHabitRepo) CreateHabit(_ context.Context, h *model.Habit) error {
	h.ID = int64(len(f.habits) + 1)
	f.habits = append(f.habits, *h)
	return nil
}

func (f *fakeHabitRepo) SetHabitCompleted(_ context.Context, userID, habitID int64, completed bool) error {
	for i := range f.habits {
		if f.habits[i].ID == habitID && f.habits[i].UserID == userID {
			f.habits[i].Completed = completed
			return nil
		}
	}
	return apperror.NotFound("habit", strconv.FormatInt(habitID, 10))
}

type fakeJournalRepo struct {
	entries []model.JournalEntry
	err     error
}

var _ repository.JournalRepository = (*fakeJournalRepo)(nil)

func (f *fakeJournalRepo) CreateJournalEntry(_ context.Context, e *model.JournalEntry) error {
	if f.err != nil {
		return f.err
	}
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeJournalRepo) ListJournal(_ context.Context, userID int64) ([]model.JournalEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.JournalEntry{}
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].UserID == userID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

// --- meal plans ---

type fakePlanRepo struct {
	targets  map[string]int // "userID/date" -> stored target
	items    []model.MealPlanItem
	creates  int
	advances []bool // one entry per MarkEaten call: was a StreakFunc passed?
}

var _ repository.MealPlanRepository = (*fakePlanRepo)(nil)

func planKey(userID int64, date string) string {
	return fmt.Sprintf("%d/%s", userID, date)
}

func (f *fakePlanRepo) GetPlan(_ context.Context, userID int64, date string) (*model.MealPlan, error) {
	target, ok := f.targets[planKey(userID, date)]
	if !ok {
		return nil, apperror.NotFound("meal plan", date)
	}
	plan := &model.MealPlan{Date: date, Target: target, Items: []model.MealPlanItem{}}
	for _, it := range f.items {
		if it.UserID == userID && it.Date == date {
			plan.Items = append(plan.Items, it)
		}
	}
	return plan, nil
}

func (f *fakePlanRepo) CreatePlanIfAbsent(ctx context.Context, userID int64, date string, target int, entries []model.PlanEntry) (*model.MealPlan, error) {
	if existing, err := f.GetPlan(ctx, userID, date); err == nil {
		return existing, nil
	}
	if f.targets == nil {
		f.targets = make(map[string]int)
	}
	f.targets[planKey(userID, date)] = target
	f.creates++
	for _, e := range entries {
		f.items = append(f.items, model.MealPlanItem{
			ID:       int64(len(f.items) + 1),
			UserID:   userID,
			Date:     date,
			Slot:     e.Slot,
			Name:     e.Name,
			Calories: e.Calories,
		})
	}
	return f.GetPlan(ctx, userID, date)
}

func (f *fakePlanRepo) MarkEaten(_ context.Context, userID, itemID int64, _ string, advance repository.StreakFunc) (bool, error) {
	f.advances = append(f.advances, advance != nil)
	for i := range f.items {
		if f.items[i].ID == itemID && f.items[i].UserID == userID {
			if f.items[i].Eaten {
				return false, nil
			}
			f.items[i].Eaten = true
			return true, nil
		}
	}
	return false, apperror.NotFound("meal plan item", strconv.FormatInt(itemID, 10))
}

// fixedTarget is a TargetSource returning a constant.
type fixedTarget struct {
	kcal int
	err  error
}

func (f fixedTarget) DailyTarget(context.Context, int64) (int, error) {
	return f.kcal, f.err
}
