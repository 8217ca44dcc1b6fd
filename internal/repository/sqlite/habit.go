package sqlite

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sakif/vitaltrack/internal/apperror"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/repository"
)

var (
	_ repository.HabitRepository   = (*DB)(nil)
	_ repository.JournalRepository = (*DB)(nil)
)

// ListHabits returns the user's habits for date in creation order.
func (db *DB) ListHabits(ctx context.Context, userID int64, date string) ([]model.Habit, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, habit_name, completed, date FROM habits
		 WHERE user_id = ? AND date = ?
		 ORDER BY id`,
		userID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing habits of user %d: %w", userID, err)
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		var (
			h         model.Habit
			completed int
		)
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &completed, &h.Date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning habit: %w", err)
		}
		h.Completed = completed != 0
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating habits: %w", err)
	}
	return habits, nil
}

// CreateHabit inserts h and sets its ID.
func (db *DB) CreateHabit(ctx context.Context, h *model.Habit) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO habits (user_id, habit_name, completed, date) VALUES (?, ?, ?, ?)`,
		h.UserID, h.Name, boolToInt(h.Completed), h.Date,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting habit for user %d: %w", h.UserID, err)
	}
	h.ID, err = res.LastInsertId()
	return err
}

// SetHabitCompleted updates the flag of one of the user's habits.
func (db *DB) SetHabitCompleted(ctx context.Context, userID, habitID int64, completed bool) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE habits SET completed = ? WHERE id = ? AND user_id = ?`,
		boolToInt(completed), habitID, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating habit %d: %w", habitID, err)
	}

	// RowsAffected counts matched rows, so re-setting the same value still counts.
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("habit", strconv.FormatInt(habitID, 10))
	}
	return nil
}

// CreateJournalEntry inserts e and sets its ID.
func (db *DB) CreateJournalEntry(ctx context.Context, e *model.JournalEntry) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO journal (user_id, entry, mood, date) VALUES (?, ?, ?, ?)`,
		e.UserID, e.Entry, e.Mood, e.Date,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting journal entry for user %d: %w", e.UserID, err)
	}
	e.ID, err = res.LastInsertId()
	return err
}

// ListJournal returns every entry of the user, newest date first and newest
// entry first within a day.
func (db *DB) ListJournal(ctx context.Context, userID int64) ([]model.JournalEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, entry, mood, date FROM journal
		 WHERE user_id = ?
		 ORDER BY date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing journal of user %d: %w", userID, err)
	}
	defer rows.Close()

	entries := []model.JournalEntry{}
	for rows.Next() {
		var e model.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Entry, &e.Mood, &e.Date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating journal: %w", err)
	}
	return entries, nil
}
