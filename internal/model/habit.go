package model

// Habit is one habit for one day; a new row is created each day it is added.
type Habit struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"habit_name"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
}

// JournalEntry is an append-only diary note with a mood tag.
type JournalEntry struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Entry  string `json:"entry"`
	Mood   string `json:"mood"`
	Date   string `json:"date"`
}
