package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sakif/vitaltrack/internal/apperror"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/nutrition"
	"github.com/sakif/vitaltrack/internal/repository"
)

var _ repository.FoodRepository = (*DB)(nil)

// likeEscaper escapes LIKE wildcards; queries use ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchCatalog returns catalog entries whose name contains query, ignoring
// case and accents, in catalog order. A non-positive limit means no limit.
func (db *DB) SearchCatalog(ctx context.Context, query string, limit int) ([]model.FoodCatalogEntry, error) {
	folded := nutrition.Fold(query)
	if folded == "" {
		return []model.FoodCatalogEntry{}, nil
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, calories FROM calorie_db
		 WHERE search_name LIKE ? ESCAPE '\'
		 ORDER BY id
		 LIMIT ?`,
		"%"+likeEscaper.Replace(folded)+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching catalog for %q: %w", query, err)
	}
	return scanCatalog(rows)
}

// ListCatalog returns the whole catalog in id order.
func (db *DB) ListCatalog(ctx context.Context) ([]model.FoodCatalogEntry, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name, calories FROM calorie_db ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing catalog: %w", err)
	}
	return scanCatalog(rows)
}

func scanCatalog(rows *sql.Rows) ([]model.FoodCatalogEntry, error) {
	defer rows.Close()

	entries := []model.FoodCatalogEntry{}
	for rows.Next() {
		var f model.FoodCatalogEntry
		if err := rows.Scan(&f.ID, &f.Name, &f.Calories); err != nil {
			return nil, fmt.Errorf("sqlite: scanning catalog row: %w", err)
		}
		entries = append(entries, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating catalog rows: %w", err)
	}
	return entries, nil
}

// RecordFoodLog inserts the entry and, when advance is non-nil, moves the
// owner's streak in the same transaction.
func (db *DB) RecordFoodLog(ctx context.Context, entry *model.FoodLogEntry, advance repository.StreakFunc) (model.StreakState, error) {
	var state model.StreakState
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		id, err := insertFoodLog(ctx, tx, entry)
		if err != nil {
			return err
		}
		entry.ID = id

		if advance == nil {
			return nil
		}
		state, err = advanceStreak(ctx, tx, entry.UserID, advance)
		return err
	})
	if err != nil {
		return model.StreakState{}, err
	}
	return state, nil
}

func insertFoodLog(ctx context.Context, tx *sql.Tx, entry *model.FoodLogEntry) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO food_logs (user_id, food_name, calories, date) VALUES (?, ?, ?, ?)`,
		entry.UserID, entry.FoodName, entry.Calories, entry.Date,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: inserting food log for user %d: %w", entry.UserID, err)
	}
	return res.LastInsertId()
}

// advanceStreak reads the user's streak, applies advance and writes it back.
// It must run inside the transaction of the log insert that triggered it.
func advanceStreak(ctx context.Context, tx *sql.Tx, userID int64, advance repository.StreakFunc) (model.StreakState, error) {
	var (
		prev    model.StreakState
		lastLog sql.NullString
	)
	err := tx.QueryRowContext(ctx,
		`SELECT streak, last_log_date FROM users WHERE id = ?`, userID,
	).Scan(&prev.Count, &lastLog)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return prev, apperror.NotFound("user", strconv.FormatInt(userID, 10))
		}
		return prev, fmt.Errorf("sqlite: reading streak of user %d: %w", userID, err)
	}
	prev.LastLogDate = lastLog.String

	next := advance(prev)
	_, err = tx.ExecContext(ctx,
		`UPDATE users SET streak = ?, last_log_date = ? WHERE id = ?`,
		next.Count, next.LastLogDate, userID,
	)
	if err != nil {
		return prev, fmt.Errorf("sqlite: updating streak of user %d: %w", userID, err)
	}
	return next, nil
}

// ListFoodLogs returns the user's logs for date in insertion order.
func (db *DB) ListFoodLogs(ctx context.Context, userID int64, date string) ([]model.FoodLogEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, food_name, calories, date FROM food_logs
		 WHERE user_id = ? AND date = ?
		 ORDER BY id`,
		userID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing food logs of user %d: %w", userID, err)
	}
	defer rows.Close()

	logs := []model.FoodLogEntry{}
	for rows.Next() {
		var l model.FoodLogEntry
		if err := rows.Scan(&l.ID, &l.UserID, &l.FoodName, &l.Calories, &l.Date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning food log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating food logs: %w", err)
	}
	return logs, nil
}

// DailyTotals returns the calorie sum per logged day, newest first, for at
// most limit days.
func (db *DB) DailyTotals(ctx context.Context, userID int64, limit int) ([]model.DailyTotal, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT date, SUM(calories) FROM food_logs
		 WHERE user_id = ?
		 GROUP BY date
		 ORDER BY date DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: computing daily totals of user %d: %w", userID, err)
	}
	defer rows.Close()

	totals := []model.DailyTotal{}
	for rows.Next() {
		var d model.DailyTotal
		if err := rows.Scan(&d.Date, &d.Total); err != nil {
			return nil, fmt.Errorf("sqlite: scanning daily total: %w", err)
		}
		totals = append(totals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating daily totals: %w", err)
	}
	return totals, nil
}
