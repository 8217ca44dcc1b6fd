package nutrition

import (
	"cmp"
	"slices"

	"github.com/sakif/vitaltrack/internal/model"
)

// Catalog names a slot may draw from, folded. A keyword matches whole words
// anywhere in the name, so "arroz" selects "Arroz Blanco".
var (
	healthyKeywords = []string{
		"manzana", "platano", "pechuga de pollo", "arroz", "huevo", "avena",
		"ensalada", "salmon", "brocoli", "aguacate", "yogurt", "lentejas",
		"quinoa", "espinacas", "almendras",
	}
	snackKeywords = []string{"manzana", "platano", "yogurt", "queso panela", "pina"}
)

// slotShares is the percentage of the daily target given to each slot.
var slotShares = map[model.MealSlot]int{
	model.SlotBreakfast: 25,
	model.SlotLunch:     40,
	model.SlotDinner:    25,
	model.SlotSnack:     10,
}

// SlotBudget returns the calorie budget of slot for a daily target.
// Budgets are rounded down, so the four of them never add up to more than target.
func SlotBudget(slot model.MealSlot, target int) int {
	if target <= 0 {
		return 0
	}
	return target * slotShares[slot] / 100
}

// IsHealthy reports whether a catalog name is on the healthy allowlist.
func IsHealthy(name string) bool {
	return containsWords(Fold(name), healthyKeywords)
}

// IsSnack reports whether a catalog name is on the snack allowlist.
func IsSnack(name string) bool {
	return containsWords(Fold(name), snackKeywords)
}

// Candidates returns the catalog entries a slot may use, in the order the
// greedy fill visits them: ascending calories for breakfast, dinner and snack,
// with ties in catalog order. Lunch walks the ascending list backwards.
func Candidates(slot model.MealSlot, catalog []model.FoodCatalogEntry) []model.FoodCatalogEntry {
	keep := IsHealthy
	if slot == model.SlotSnack {
		keep = IsSnack
	}

	var out []model.FoodCatalogEntry
	for _, f := range catalog {
		if f.Calories >= 0 && keep(f.Name) {
			out = append(out, f)
		}
	}

	slices.SortStableFunc(out, func(a, b model.FoodCatalogEntry) int {
		return cmp.Compare(a.Calories, b.Calories)
	})
	if slot == model.SlotLunch {
		slices.Reverse(out)
	}
	return out
}

// GreedyFill walks candidates in order and accepts each item that still fits
// under target, stopping as soon as the accepted sum reaches 90% of target.
// A name already accepted is skipped. The result may be empty when every
// candidate is larger than target.
func GreedyFill(candidates []model.FoodCatalogEntry, target int) ([]model.FoodCatalogEntry, int) {
	if target <= 0 {
		return nil, 0
	}

	var (
		picked []model.FoodCatalogEntry
		sum    int
		seen   = make(map[string]bool)
	)
	for _, c := range candidates {
		key := Fold(c.Name)
		if seen[key] || sum+c.Calories > target {
			continue
		}
		picked = append(picked, c)
		seen[key] = true
		sum += c.Calories

		// sum >= 0.9*target without floating point
		if sum*10 >= target*9 {
			break
		}
	}
	return picked, sum
}

// BuildPlan assembles a day's plan for target from the catalog, slot by slot
// in breakfast, lunch, dinner, snack order. The returned calories never add
// up to more than target.
func BuildPlan(target int, catalog []model.FoodCatalogEntry) []model.PlanEntry {
	var plan []model.PlanEntry
	for _, slot := range model.MealSlots {
		picked, _ := GreedyFill(Candidates(slot, catalog), SlotBudget(slot, target))
		for _, f := range picked {
			plan = append(plan, model.PlanEntry{Slot: slot, Name: f.Name, Calories: f.Calories})
		}
	}
	return plan
}
