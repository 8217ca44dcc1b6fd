package model

import "time"

// DateLayout is the calendar-date format used for every date-scoped row.
const DateLayout = "2006-01-02"

// DateOf formats t as a calendar date in t's own location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// FoodCatalogEntry is one row of the local calorie catalog.
type FoodCatalogEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}

// Search result sources.
const (
	SourceLocal  = "Local"
	SourceEdamam = "Edamam"
	SourceCombo  = "Combo"
)

// FoodResult is one entry of a food search response.
type FoodResult struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Source   string `json:"source"`
}

// FoodLogEntry records something the user ate on a given day.
type FoodLogEntry struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	FoodName string `json:"food_name"`
	Calories int    `json:"calories"`
	Date     string `json:"date"`
}

// DailyTotal is the calorie sum for one day.
type DailyTotal struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}
