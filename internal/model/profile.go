package model

// Sex selects the Mifflin-St Jeor constant.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel is the closed set of activity classes used by the TDEE estimator.
// ActivitySedentary doubles as the explicit default for text that matches no keyword.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityIntense   ActivityLevel = "intense"
)

// Goal adjusts the daily target up or down.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// Profile holds the body and lifestyle attributes of a user.
// A zero field means "not set" and falls back to DefaultProfile when estimating.
type Profile struct {
	FullName      string        `json:"full_name"`
	Age           int           `json:"age"`
	Sex           Sex           `json:"sex"`
	HeightCm      float64       `json:"height_cm"`
	WeightKg      float64       `json:"weight_kg"`
	ActivityLevel ActivityLevel `json:"activity_level"`
	Goal          Goal          `json:"goal"`
	Allergies     string        `json:"allergies"`
}

// DefaultProfile is what the guest sees and what fills any unset field.
func DefaultProfile() Profile {
	return Profile{
		FullName:      "Invitado",
		Age:           25,
		Sex:           SexMale,
		HeightCm:      175,
		WeightKg:      70,
		ActivityLevel: ActivityModerate,
		Goal:          GoalMaintain,
	}
}

// WithDefaults returns p with every unset field taken from DefaultProfile.
func (p Profile) WithDefaults() Profile {
	d := DefaultProfile()
	if p.FullName == "" {
		p.FullName = d.FullName
	}
	if p.Age <= 0 {
		p.Age = d.Age
	}
	if p.Sex == "" {
		p.Sex = d.Sex
	}
	if p.HeightCm <= 0 {
		p.HeightCm = d.HeightCm
	}
	if p.WeightKg <= 0 {
		p.WeightKg = d.WeightKg
	}
	if p.ActivityLevel == "" {
		p.ActivityLevel = d.ActivityLevel
	}
	if p.Goal == "" {
		p.Goal = d.Goal
	}
	return p
}
