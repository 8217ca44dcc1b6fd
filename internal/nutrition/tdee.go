package nutrition

import (
	"math"

	"github.com/sakif/vitaltrack/internal/model"
)

// MinDailyCalories is the floor applied to every daily target.
const MinDailyCalories = 1200

// goalAdjustment is subtracted for a lose goal and added for a gain goal.
const goalAdjustment = 250

// activityFactors maps each activity class to its TDEE multiplier.
// Sedentary carries the fallback factor used for unrecognised activity text.
var activityFactors = map[model.ActivityLevel]float64{
	model.ActivitySedentary: 1.4,
	model.ActivityLight:     1.375,
	model.ActivityModerate:  1.55,
	model.ActivityIntense:   1.725,
}

// ActivityFactor returns the multiplier for level, classifying it first.
func ActivityFactor(level model.ActivityLevel) float64 {
	return activityFactors[ClassifyActivity(string(level))]
}

// BMR computes the basal metabolic rate with the Mifflin-St Jeor equation.
// Unset profile fields take their DefaultProfile value.
func BMR(p model.Profile) float64 {
	p = p.WithDefaults()
	bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	if ClassifySex(string(p.Sex)) == model.SexFemale {
		return bmr - 161
	}
	return bmr + 5
}

// EstimateTDEE returns the daily calorie target for a profile: BMR times the
// activity factor, rounded, moved by the goal adjustment and floored at
// MinDailyCalories.
func EstimateTDEE(p model.Profile) int {
	p = p.WithDefaults()
	tdee := int(math.Round(BMR(p) * ActivityFactor(p.ActivityLevel)))

	switch ClassifyGoal(string(p.Goal)) {
	case model.GoalLose:
		tdee -= goalAdjustment
	case model.GoalGain:
		tdee += goalAdjustment
	}

	return max(tdee, MinDailyCalories)
}
