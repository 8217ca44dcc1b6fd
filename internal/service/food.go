package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/nutrition"
	"github.com/sakif/vitaltrack/internal/repository"
	"github.com/sakif/vitaltrack/internal/streak"
)

const (
	MaxSearchResults = 20
	StatsDays        = 7
)

// comboSeparator splits "pollo con arroz" into its two halves.
var comboSeparator = regexp.MustCompile(`(?i)\s+con\s+`)

// FoodLookup is an external food database. *edamam.Client implements it.
type FoodLookup interface {
	Search(ctx context.Context, query string) ([]model.FoodResult, error)
}

// LogFoodInput is the POST /log-food body.
type LogFoodInput struct {
	FoodName string `json:"food_name" validate:"required,max=200"`
	Calories int    `json:"calories" validate:"gte=0,lte=20000"`
}

// FoodService searches foods and records what users eat.
type FoodService struct {
	foods    repository.FoodRepository
	external FoodLookup
	logger   *slog.Logger
	now      func() time.Time
}

// NewFoodService wires the service. external may be nil, in which case
// searches only cover the local catalog.
func NewFoodService(foods repository.FoodRepository, external FoodLookup, logger *slog.Logger) *FoodService {
	return &FoodService{
		foods:    foods,
		external: external,
		logger:   logger,
		now:      time.Now,
	}
}

// Search returns up to MaxSearchResults foods matching query.
//
// Local catalog hits come first and win over external results with the same
// (case- and accent-folded) name. A query of the form "A con B" additionally
// produces a Combo entry built from the top hit for A and the top hit for B,
// placed before everything else.
//
// External failures never fail the search; they are logged and the local
// results are returned alone.
func (s *FoodService) Search(ctx context.Context, query string) ([]model.FoodResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []model.FoodResult{}, nil
	}

	a, b, isCombo := splitCombo(q)
	if !isCombo {
		return s.lookup(ctx, q)
	}

	var regular, hitsA, hitsB []model.FoodResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		regular, err = s.lookup(gctx, q)
		return err
	})
	g.Go(func() (err error) {
		hitsA, err = s.lookup(gctx, a)
		return err
	})
	g.Go(func() (err error) {
		hitsB, err = s.lookup(gctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(hitsA) == 0 || len(hitsB) == 0 {
		return regular, nil
	}
	combo := model.FoodResult{
		Name:     hitsA[0].Name + " con " + hitsB[0].Name,
		Calories: hitsA[0].Calories + hitsB[0].Calories,
		Source:   model.SourceCombo,
	}
	out := append([]model.FoodResult{combo}, regular...)
	if len(out) > MaxSearchResults {
		out = out[:MaxSearchResults]
	}
	return out, nil
}

// lookup queries the catalog and the external source concurrently and merges them.
func (s *FoodService) lookup(ctx context.Context, q string) ([]model.FoodResult, error) {
	var (
		local    []model.FoodCatalogEntry
		external []model.FoodResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		local, err = s.foods.SearchCatalog(gctx, q, MaxSearchResults)
		return err
	})
	if s.external != nil {
		g.Go(func() error {
			res, err := s.external.Search(gctx, q)
			if err != nil {
				s.logger.Warn("external food lookup failed, using local results",
					slog.String("query", q),
					slog.String("error", err.Error()),
				)
				return nil
			}
			external = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("searching foods for %q: %w", q, err)
	}

	return mergeResults(local, external), nil
}

// mergeResults dedups by folded name, local entries first, and caps the list.
func mergeResults(local []model.FoodCatalogEntry, external []model.FoodResult) []model.FoodResult {
	out := make([]model.FoodResult, 0, min(len(local)+len(external), MaxSearchResults))
	seen := make(map[string]bool, cap(out))

	add := func(r model.FoodResult) {
		key := nutrition.Fold(r.Name)
		if key == "" || seen[key] || len(out) >= MaxSearchResults {
			return
		}
		seen[key] = true
		out = append(out, r)
	}

	for _, e := range local {
		add(model.FoodResult{Name: e.Name, Calories: e.Calories, Source: model.SourceLocal})
	}
	for _, r := range external {
		add(r)
	}
	return out
}

// splitCombo splits at the first " con ", ignoring case. Both halves must
// be non-blank.
func splitCombo(q string) (string, string, bool) {
	loc := comboSeparator.FindStringIndex(q)
	if loc == nil {
		return "", "", false
	}
	a := strings.TrimSpace(q[:loc[0]])
	b := strings.TrimSpace(q[loc[1]:])
	if a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}

// LogFood records a food for today and advances the caller's streak.
// It returns the streak count after the write; the guest's stays 0.
func (s *FoodService) LogFood(ctx context.Context, userID int64, in LogFoodInput) (int, error) {
	in.FoodName = strings.TrimSpace(in.FoodName)
	if err := validateStruct(in); err != nil {
		return 0, err
	}

	now := s.now()
	entry := &model.FoodLogEntry{
		UserID:   userID,
		FoodName: in.FoodName,
		Calories: in.Calories,
		Date:     model.DateOf(now),
	}
	state, err := s.foods.RecordFoodLog(ctx, entry, streak.ForUser(userID, now))
	if err != nil {
		return 0, fmt.Errorf("logging food for user %d: %w", userID, err)
	}

	s.logger.Info("food logged",
		slog.Int64("userID", userID),
		slog.String("food", entry.FoodName),
		slog.Int("calories", entry.Calories),
		slog.Int("streak", state.Count),
	)
	return state.Count, nil
}

// DailyLogs returns the caller's food logs for today.
func (s *FoodService) DailyLogs(ctx context.Context, userID int64) ([]model.FoodLogEntry, error) {
	logs, err := s.foods.ListFoodLogs(ctx, userID, model.DateOf(s.now()))
	if err != nil {
		return nil, fmt.Errorf("listing food logs for user %d: %w", userID, err)
	}
	return logs, nil
}

// Stats returns calorie totals for the caller's most recent StatsDays logging days, newest first.
func (s *FoodService) Stats(ctx context.Context, userID int64) ([]model.DailyTotal, error) {
	totals, err := s.foods.DailyTotals(ctx, userID, StatsDays)
	if err != nil {
		return nil, fmt.Errorf("loading stats for user %d: %w", userID, err)
	}
	return totals, nil
}
