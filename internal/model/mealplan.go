package model

// MealSlot is one of the four meal categories of a daily plan.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnack     MealSlot = "snack"
)

// MealSlots lists the slots in plan order.
var MealSlots = []MealSlot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}

// PlanEntry is a generated (slot, item, calories) tuple before it is stored.
type PlanEntry struct {
	Slot     MealSlot `json:"meal_type"`
	Name     string   `json:"item_name"`
	Calories int      `json:"calories"`
}

// MealPlanItem is a stored plan entry.
type MealPlanItem struct {
	ID       int64    `json:"id"`
	UserID   int64    `json:"user_id"`
	Date     string   `json:"date"`
	Slot     MealSlot `json:"meal_type"`
	Name     string   `json:"item_name"`
	Calories int      `json:"calories"`
	Eaten    bool     `json:"eaten"`
}

// MealPlan is the response shape of GET /api/meal-plan.
type MealPlan struct {
	Date   string         `json:"date"`
	Target int            `json:"target"`
	Items  []MealPlanItem `json:"items"`
}
