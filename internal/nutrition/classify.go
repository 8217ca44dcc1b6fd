package nutrition

import (
	"slices"

	"github.com/sakif/vitaltrack/internal/model"
)

// Keyword tables are stored already folded (see Fold).
var (
	intenseKeywords   = []string{"intense", "intensa", "intenso", "alta", "alto", "vigorous"}
	moderateKeywords  = []string{"moderate", "moderada", "moderado", "media"}
	lightKeywords     = []string{"light", "ligera", "ligero", "leve"}
	sedentaryKeywords = []string{"sedentary", "sedentaria", "sedentario"}

	loseKeywords = []string{"lose", "lower", "bajar", "perder", "deficit", "adelgazar"}
	gainKeywords = []string{"gain", "bulk", "subir", "ganar", "aumentar", "volumen"}

	femaleWords = []string{"female", "f", "mujer", "femenino", "femenina", "woman"}
)

// ClassifyActivity maps free text onto the closed activity set.
//
// Blank text means the field was never set and yields ActivityModerate.
// Text that matches no keyword yields ActivitySedentary, whose factor is the
// fallback multiplier.
func ClassifyActivity(text string) model.ActivityLevel {
	folded := Fold(text)
	switch {
	case folded == "":
		return model.ActivityModerate
	case containsAny(folded, sedentaryKeywords):
		return model.ActivitySedentary
	case containsAny(folded, intenseKeywords):
		return model.ActivityIntense
	case containsAny(folded, moderateKeywords):
		return model.ActivityModerate
	case containsAny(folded, lightKeywords):
		return model.ActivityLight
	default:
		return model.ActivitySedentary
	}
}

// ClassifyGoal maps free text onto lose, gain or maintain.
func ClassifyGoal(text string) model.Goal {
	folded := Fold(text)
	switch {
	case containsAny(folded, loseKeywords):
		return model.GoalLose
	case containsAny(folded, gainKeywords):
		return model.GoalGain
	default:
		return model.GoalMaintain
	}
}

// ClassifySex returns SexFemale for the recognised female spellings and
// SexMale for everything else, including blank text.
func ClassifySex(text string) model.Sex {
	if slices.Contains(femaleWords, Fold(text)) {
		return model.SexFemale
	}
	return model.SexMale
}

// Normalize returns p with sex, activity and goal reduced to their enum values.
// Rows written before classification moved to the write path hold free text;
// running them through Normalize again is harmless.
func Normalize(p model.Profile) model.Profile {
	p.Sex = ClassifySex(string(p.Sex))
	p.ActivityLevel = ClassifyActivity(string(p.ActivityLevel))
	p.Goal = ClassifyGoal(string(p.Goal))
	return p
}
