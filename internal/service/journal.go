package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/repository"
)

// JournalInput is the POST /journal body.
type JournalInput struct {
	Entry string `json:"entry" validate:"required,max=5000"`
	Mood  string `json:"mood" validate:"max=50"`
}

// JournalService appends to and reads the caller's journal.
type JournalService struct {
	journal repository.JournalRepository
	logger  *slog.Logger
	now     func() time.Time
}

func NewJournalService(journal repository.JournalRepository, logger *slog.Logger) *JournalService {
	return &JournalService{journal: journal, logger: logger, now: time.Now}
}

// Write stores an entry dated today.
func (s *JournalService) Write(ctx context.Context, userID int64, in JournalInput) error {
	in.Entry = strings.TrimSpace(in.Entry)
	in.Mood = strings.TrimSpace(in.Mood)
	if err := validateStruct(in); err != nil {
		return err
	}

	e := &model.JournalEntry{UserID: userID, Entry: in.Entry, Mood: in.Mood, Date: model.DateOf(s.now())}
	if err := s.journal.CreateJournalEntry(ctx, e); err != nil {
		return fmt.Errorf("writing journal for user %d: %w", userID, err)
	}
	s.logger.Info("journal entry written", slog.Int64("userID", userID), slog.String("mood", e.Mood))
	return nil
}

// List returns every entry of the caller, newest first.
func (s *JournalService) List(ctx context.Context, userID int64) ([]model.JournalEntry, error) {
	entries, err := s.journal.ListJournal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing journal for user %d: %w", userID, err)
	}
	return entries, nil
}
