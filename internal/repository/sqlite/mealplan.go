package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sakif/vitaltrack/internal/apperror"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/repository"
)

var _ repository.MealPlanRepository = (*DB)(nil)

// queryer is the subset of *sql.DB and *sql.Tx the plan reads need.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const planOrder = `ORDER BY CASE meal_type
		WHEN 'breakfast' THEN 0 WHEN 'lunch' THEN 1 WHEN 'dinner' THEN 2 ELSE 3 END, id`

func listPlan(ctx context.Context, q queryer, userID int64, date string) ([]model.MealPlanItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, user_id, date, meal_type, item_name, calories, eaten FROM meal_plan_items
		 WHERE user_id = ? AND date = ? `+planOrder,
		userID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing meal plan of user %d: %w", userID, err)
	}
	defer rows.Close()

	items := []model.MealPlanItem{}
	for rows.Next() {
		var (
			it    model.MealPlanItem
			slot  string
			eaten int
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.Date, &slot, &it.Name, &it.Calories, &eaten); err != nil {
			return nil, fmt.Errorf("sqlite: scanning meal plan item: %w", err)
		}
		it.Slot = model.MealSlot(slot)
		it.Eaten = eaten != 0
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating meal plan: %w", err)
	}
	return items, nil
}

func getPlan(ctx context.Context, q queryer, userID int64, date string) (*model.MealPlan, error) {
	plan := &model.MealPlan{Date: date}
	err := q.QueryRowContext(ctx,
		`SELECT target FROM meal_plans WHERE user_id = ? AND date = ?`,
		userID, date,
	).Scan(&plan.Target)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("meal plan", date)
		}
		return nil, fmt.Errorf("sqlite: reading meal plan of user %d: %w", userID, err)
	}

	plan.Items, err = listPlan(ctx, q, userID, date)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// GetPlan returns the stored plan for (userID, date) with the target it was
// generated for, or apperror.ErrNotFound when none was stored.
func (db *DB) GetPlan(ctx context.Context, userID int64, date string) (*model.MealPlan, error) {
	return getPlan(ctx, db.conn, userID, date)
}

// CreatePlanIfAbsent stores target and entries as the plan for (userID, date)
// unless a plan already exists, and returns the stored plan either way.
// The meal_plans primary key decides which caller creates the plan. Items
// left from before plans had a header row are kept and adopt target.
func (db *DB) CreatePlanIfAbsent(ctx context.Context, userID int64, date string, target int, entries []model.PlanEntry) (*model.MealPlan, error) {
	var plan *model.MealPlan
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO meal_plans (user_id, date, target) VALUES (?, ?, ?)`,
			userID, date, target,
		)
		if err != nil {
			return fmt.Errorf("sqlite: creating meal plan of user %d: %w", userID, err)
		}
		created, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: creating meal plan of user %d: %w", userID, err)
		}

		if created == 1 {
			var existing int
			err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM meal_plan_items WHERE user_id = ? AND date = ?`,
				userID, date,
			).Scan(&existing)
			if err != nil {
				return fmt.Errorf("sqlite: checking meal plan of user %d: %w", userID, err)
			}

			if existing == 0 {
				for _, e := range entries {
					_, err := tx.ExecContext(ctx,
						`INSERT OR IGNORE INTO meal_plan_items (user_id, date, meal_type, item_name, calories, eaten)
						 VALUES (?, ?, ?, ?, ?, 0)`,
						userID, date, string(e.Slot), e.Name, e.Calories,
					)
					if err != nil {
						return fmt.Errorf("sqlite: inserting meal plan item %q: %w", e.Name, err)
					}
				}
			}
		}

		plan, err = getPlan(ctx, tx, userID, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// MarkEaten sets the eaten flag of one of the user's plan items, logs the
// item's calories on date and advances the streak, all in one transaction.
// An item that is already eaten is left alone and reported with false.
func (db *DB) MarkEaten(ctx context.Context, userID, itemID int64, date string, advance repository.StreakFunc) (bool, error) {
	logged := false
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		var (
			name     string
			calories int
			eaten    int
		)
		err := tx.QueryRowContext(ctx,
			`SELECT item_name, calories, eaten FROM meal_plan_items WHERE id = ? AND user_id = ?`,
			itemID, userID,
		).Scan(&name, &calories, &eaten)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("meal plan item", strconv.FormatInt(itemID, 10))
			}
			return fmt.Errorf("sqlite: reading meal plan item %d: %w", itemID, err)
		}
		if eaten != 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE meal_plan_items SET eaten = 1 WHERE id = ?`, itemID,
		); err != nil {
			return fmt.Errorf("sqlite: marking meal plan item %d eaten: %w", itemID, err)
		}

		entry := &model.FoodLogEntry{UserID: userID, FoodName: name, Calories: calories, Date: date}
		if _, err := insertFoodLog(ctx, tx, entry); err != nil {
			return err
		}
		if advance != nil {
			if _, err := advanceStreak(ctx, tx, userID, advance); err != nil {
				return err
			}
		}
		logged = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return logged, nil
}
