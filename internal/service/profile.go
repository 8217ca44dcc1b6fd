package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/nutrition"
	"github.com/sakif/vitaltrack/internal/repository"
)

// ProfileInput is the PUT /profile body. Sex, activity and goal arrive as
// free text and are classified before they are stored. Zero numbers mean
// "not set".
type ProfileInput struct {
	FullName      string  `json:"full_name" validate:"max=100"`
	Age           int     `json:"age" validate:"omitempty,min=1,max=120"`
	Sex           string  `json:"sex" validate:"max=20"`
	HeightCm      float64 `json:"height_cm" validate:"omitempty,min=50,max=250"`
	WeightKg      float64 `json:"weight_kg" validate:"omitempty,min=10,max=400"`
	ActivityLevel string  `json:"activity_level" validate:"max=100"`
	Goal          string  `json:"goal" validate:"max=100"`
	Allergies     string  `json:"allergies" validate:"max=500"`
}

// ProfileView is the GET /profile response: the stored profile plus the
// estimated daily calorie target.
type ProfileView struct {
	model.Profile
	DailyTarget int `json:"daily_target"`
}

// ProfileService reads and writes profiles and derives the daily target.
type ProfileService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewProfileService(users repository.UserRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{users: users, logger: logger}
}

// Get returns the caller's profile. The guest always sees DefaultProfile.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*ProfileView, error) {
	if model.IsGuest(userID) {
		p := model.DefaultProfile()
		return &ProfileView{Profile: p, DailyTarget: nutrition.EstimateTDEE(p)}, nil
	}

	stored, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{
		Profile:     nutrition.Normalize(stored),
		DailyTarget: estimate(stored),
	}, nil
}

// DailyTarget is the TDEE for the caller, with unset fields taken from the default profile.
func (s *ProfileService) DailyTarget(ctx context.Context, userID int64) (int, error) {
	if model.IsGuest(userID) {
		return nutrition.EstimateTDEE(model.DefaultProfile()), nil
	}
	stored, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return estimate(stored), nil
}

// Update validates, classifies and stores the profile.
// The guest's profile is fixed, so updating it succeeds without writing.
func (s *ProfileService) Update(ctx context.Context, userID int64, in ProfileInput) error {
	if model.IsGuest(userID) {
		return nil
	}
	if err := validateStruct(in); err != nil {
		return err
	}

	p := model.Profile{
		FullName:  strings.TrimSpace(in.FullName),
		Age:       in.Age,
		HeightCm:  in.HeightCm,
		WeightKg:  in.WeightKg,
		Allergies: strings.TrimSpace(in.Allergies),
	}
	// Blank text stays unset so the read side can tell "absent" from "unmatched".
	if strings.TrimSpace(in.Sex) != "" {
		p.Sex = nutrition.ClassifySex(in.Sex)
	}
	if strings.TrimSpace(in.ActivityLevel) != "" {
		p.ActivityLevel = nutrition.ClassifyActivity(in.ActivityLevel)
	}
	if strings.TrimSpace(in.Goal) != "" {
		p.Goal = nutrition.ClassifyGoal(in.Goal)
	}

	if err := s.users.UpdateProfile(ctx, userID, p); err != nil {
		return fmt.Errorf("updating profile for user %d: %w", userID, err)
	}

	s.logger.Info("profile updated",
		slog.Int64("userID", userID),
		slog.String("activity", string(p.ActivityLevel)),
		slog.String("goal", string(p.Goal)),
	)
	return nil
}

func (s *ProfileService) load(ctx context.Context, userID int64) (model.Profile, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("loading profile for user %d: %w", userID, err)
	}
	return u.Profile, nil
}

func estimate(stored model.Profile) int {
	return nutrition.EstimateTDEE(nutrition.Normalize(stored.WithDefaults()))
}
