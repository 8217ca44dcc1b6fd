// Package model defines the data structures used throughout the application.
package model

import "time"

// GuestID is the reserved identity used when a request carries no valid credential.
// The guest is a real row (id 0) so that its logs, habits and plans satisfy foreign keys,
// but it has a reduced capability set: it cannot log in, its profile is never persisted
// and its streak never advances.
const GuestID int64 = 0

// GuestUsername is the username of the guest row created by the first migration.
const GuestUsername = "invitado"

// IsGuest reports whether id is the shared guest identity.
func IsGuest(id int64) bool {
	return id == GuestID
}

// User represents an account row.
//
// PasswordHash is empty for the guest and for accounts created through GitHub sign-in;
// bcrypt never matches an empty hash, so neither can log in with a password.
type User struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	GitHubID     *int64      `json:"-"`
	Streak       StreakState `json:"-"`
	Profile      Profile     `json:"-"`
	CreatedAt    time.Time   `json:"-"`
}

// StreakState is the per-user consecutive-day counter.
// LastLogDate is empty when the user has never logged food.
type StreakState struct {
	Count       int    `json:"streak"`
	LastLogDate string `json:"last_log_date,omitempty"`
}

// UserSummary is the public view returned by login and /api/me.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Streak   int    `json:"streak"`
}

// Summary returns the public view of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Streak: u.Streak.Count}
}
