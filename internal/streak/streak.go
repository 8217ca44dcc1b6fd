// Package streak implements the consecutive-day logging counter.
//
// The transition is a pure function of the previous state and today's date.
// Callers apply it inside the same transaction as the food-log insert that
// triggered it, so two concurrent logs cannot both advance from the same
// stale state.
package streak

import (
	"time"

	"github.com/sakif/vitaltrack/internal/model"
)

// Advance returns the state after a food log written on today's calendar date.
//
//	last log was yesterday -> count + 1
//	last log was today     -> count unchanged
//	anything else          -> 1
//
// LastLogDate is set to today in every case.
func Advance(prev model.StreakState, today time.Time) model.StreakState {
	todayStr := model.DateOf(today)
	yesterdayStr := model.DateOf(today.AddDate(0, 0, -1))

	next := model.StreakState{Count: prev.Count, LastLogDate: todayStr}
	switch prev.LastLogDate {
	case yesterdayStr:
		next.Count = prev.Count + 1
	case todayStr:
		// second log of the day
	default:
		next.Count = 1
	}
	return next
}

// ForUser returns the transition to apply for userID at today, or nil when
// the user is the guest and its streak must never change.
func ForUser(userID int64, today time.Time) func(model.StreakState) model.StreakState {
	if model.IsGuest(userID) {
		return nil
	}
	return func(prev model.StreakState) model.StreakState {
		return Advance(prev, today)
	}
}
