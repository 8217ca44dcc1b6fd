package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/vitaltrack/internal/apperror"
	"github.com/sakif/vitaltrack/internal/model"
)

func newTestProfileService(t *testing.T) (*ProfileService, *fakeUserRepo, int64) {
	t.Helper()
	repo := newFakeUserRepo()
	id, err := repo.CreateUser(context.Background(), "ana", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return NewProfileService(repo, discardLogger()), repo, id
}

// =========================================================================
// Get TESTS
// =========================================================================

func TestProfileGet_GuestSeesDefaults(t *testing.T) {
	svc, _, _ := newTestProfileService(t)

	view, err := svc.Get(context.Background(), model.GuestID)
	if err != nil {
		t.Fatalf("Get(guest) error = %v", err)
	}
	if view.Profile != model.DefaultProfile() {
		t.Errorf("guest profile = %+v", view.Profile)
	}
	if view.DailyTarget != 2594 {
		t.Errorf("guest DailyTarget = %d, want 2594", view.DailyTarget)
	}
}

func TestProfileGet_EmptyProfileUsesDefaultsForTarget(t *testing.T) {
	svc, _, id := newTestProfileService(t)

	view, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if view.FullName != "" || view.Age != 0 {
		t.Errorf("unset fields should stay unset in the view: %+v", view.Profile)
	}
	if view.ActivityLevel != model.ActivityModerate || view.Goal != model.GoalMaintain {
		t.Errorf("absent enums = %q/%q, want moderate/maintain", view.ActivityLevel, view.Goal)
	}
	if view.DailyTarget != 2594 {
		t.Errorf("DailyTarget = %d, want 2594", view.DailyTarget)
	}
}

func TestProfileGet_ReclassifiesLegacyText(t *testing.T) {
	svc, repo, id := newTestProfileService(t)
	repo.users[id].Profile = model.Profile{
		Age: 30, HeightCm: 165, WeightKg: 60,
		Sex: "Mujer", ActivityLevel: "Muy Intensa", Goal: "bajar de peso",
	}

	view, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if view.Sex != model.SexFemale || view.ActivityLevel != model.ActivityIntense || view.Goal != model.GoalLose {
		t.Errorf("classified = %q/%q/%q", view.Sex, view.ActivityLevel, view.Goal)
	}
	// 10*60 + 6.25*165 - 5*30 - 161 = 1320.25; *1.725 = 2277; -250
	if view.DailyTarget != 2027 {
		t.Errorf("DailyTarget = %d, want 2027", view.DailyTarget)
	}
}

func TestProfileGet_UnknownUser(t *testing.T) {
	svc, _, _ := newTestProfileService(t)

	if _, err := svc.Get(context.Background(), 999); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get(999) error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// Update TESTS
// =========================================================================

func TestProfileUpdate_ClassifiesBeforeStoring(t *testing.T) {
	svc, repo, id := newTestProfileService(t)

	err := svc.Update(context.Background(), id, ProfileInput{
		FullName:      "  Ana López ",
		Age:           30,
		Sex:           "femenino",
		HeightCm:      165,
		WeightKg:      60,
		ActivityLevel: "Ligera",
		Goal:          "Subir masa muscular",
		Allergies:     "nueces",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	want := model.Profile{
		FullName:      "Ana López",
		Age:           30,
		Sex:           model.SexFemale,
		HeightCm:      165,
		WeightKg:      60,
		ActivityLevel: model.ActivityLight,
		Goal:          model.GoalGain,
		Allergies:     "nueces",
	}
	if got := repo.users[id].Profile; got != want {
		t.Errorf("stored profile = %+v, want %+v", got, want)
	}
}

func TestProfileUpdate_BlankTextStaysUnset(t *testing.T) {
	svc, repo, id := newTestProfileService(t)

	if err := svc.Update(context.Background(), id, ProfileInput{Age: 40, ActivityLevel: "  "}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	p := repo.users[id].Profile
	if p.ActivityLevel != "" || p.Goal != "" || p.Sex != "" {
		t.Errorf("blank text should stay unset, got %+v", p)
	}
}

func TestProfileUpdate_UnmatchedActivityIsSedentary(t *testing.T) {
	svc, repo, id := newTestProfileService(t)

	if err := svc.Update(context.Background(), id, ProfileInput{ActivityLevel: "a veces"}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := repo.users[id].Profile.ActivityLevel; got != model.ActivitySedentary {
		t.Errorf("ActivityLevel = %q, want sedentary", got)
	}
}

func TestProfileUpdate_GuestIsNoOp(t *testing.T) {
	svc, repo, _ := newTestProfileService(t)

	if err := svc.Update(context.Background(), model.GuestID, ProfileInput{Age: 200}); err != nil {
		t.Fatalf("Update(guest) error = %v", err)
	}
	if repo.users[model.GuestID].Profile != (model.Profile{}) {
		t.Error("guest profile was written")
	}
}

func TestProfileUpdate_Validation(t *testing.T) {
	tests := []struct {
		name      string
		in        ProfileInput
		wantField string
	}{
		{"age too high", ProfileInput{Age: 121}, "age"},
		{"negative age", ProfileInput{Age: -1}, "age"},
		{"height too low", ProfileInput{HeightCm: 40}, "height_cm"},
		{"height too high", ProfileInput{HeightCm: 300}, "height_cm"},
		{"weight too low", ProfileInput{WeightKg: 5}, "weight_kg"},
		{"weight too high", ProfileInput{WeightKg: 401}, "weight_kg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, id := newTestProfileService(t)

			err := svc.Update(context.Background(), id, tt.in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Update() error = %v, want ErrValidation", err)
			}
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", appErr.Field, tt.wantField)
			}
			if repo.users[id].Profile != (model.Profile{}) {
				t.Error("invalid profile was stored")
			}
		})
	}
}

func TestProfileUpdate_BoundariesAccepted(t *testing.T) {
	svc, _, id := newTestProfileService(t)

	for _, in := range []ProfileInput{
		{Age: 1, HeightCm: 50, WeightKg: 10},
		{Age: 120, HeightCm: 250, WeightKg: 400},
		{},
	} {
		if err := svc.Update(context.Background(), id, in); err != nil {
			t.Errorf("Update(%+v) error = %v", in, err)
		}
	}
}

func TestDailyTarget(t *testing.T) {
	svc, repo, id := newTestProfileService(t)
	ctx := context.Background()

	if got, _ := svc.DailyTarget(ctx, model.GuestID); got != 2594 {
		t.Errorf("DailyTarget(guest) = %d, want 2594", got)
	}

	repo.users[id].Profile = model.Profile{Goal: model.GoalGain}
	if got, _ := svc.DailyTarget(ctx, id); got != 2844 {
		t.Errorf("DailyTarget(gain) = %d, want 2844", got)
	}
}
