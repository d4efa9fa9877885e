package service

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/access"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
	"github.com/aussiebroadwan/launchpad/pkg/idx"
	"github.com/aussiebroadwan/launchpad/pkg/slogx"
)

const (
	MaxSectionLength = 100
	MaxCommentLength = 4000
)

type FeedbackService struct {
	Store store.Store
	Now   Clock
}

type FeedbackInput struct {
	Section string
	Rating  int
	Comment string
	Payload domain.Payload
}

// validSection accepts names like "market_research" or "tracker:01H...".
func validSection(s string) bool {
	if s == "" || len(s) > MaxSectionLength {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == ':' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return true
}

// Submit records feedback from the startup's current mentor.
func (s *FeedbackService) Submit(ctx context.Context, startupID string, p domain.Principal, in FeedbackInput) (domain.Feedback, error) {
	if !validSection(in.Section) {
		return domain.Feedback{}, invalid("section must be 1-%d characters of letters, digits, '_', ':', '-' or '.'", MaxSectionLength)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return domain.Feedback{}, invalid("rating must be between 1 and 5")
	}
	comment := sanitizeText(in.Comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return domain.Feedback{}, invalid("comment is too long")
	}
	if err := in.Payload.Normalize(); err != nil {
		return domain.Feedback{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.Now.now()
	f := domain.Feedback{
		ID:        idx.NewAt(now).String(),
		StartupID: startupID,
		MentorID:  p.UserID,
		Section:   in.Section,
		Rating:    in.Rating,
		Comment:   comment,
		Payload:   in.Payload,
		CreatedAt: now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, startupID, p, access.OpMentorFeedback); err != nil {
			return err
		}
		if err := tx.Feedback().CreateFeedback(ctx, f); err != nil {
			return fmt.Errorf("create feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Feedback{}, err
	}

	slogx.FromContext(ctx).Info("feedback submitted",
		slog.String("startup_id", startupID),
		slog.String("section", f.Section),
		slog.Int("rating", f.Rating),
	)
	return f, nil
}

// List returns feedback newest first, optionally for one section.
func (s *FeedbackService) List(ctx context.Context, startupID string, p domain.Principal, section string) ([]domain.Feedback, error) {
	if section != "" && !validSection(section) {
		return nil, invalid("malformed section")
	}

	var out []domain.Feedback
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, startupID, p, access.OpRead); err != nil {
			return err
		}
		var err error
		if out, err = tx.Feedback().ListFeedback(ctx, startupID, section); err != nil {
			return fmt.Errorf("list feedback: %w", err)
		}
		return nil
	})
	return out, err
}
