package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/access"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
	"github.com/aussiebroadwan/launchpad/pkg/idx"
)

const MaxSummaryLength = 10000

type TrackerService struct {
	Store store.Store
	Now   Clock
}

type TrackerInput struct {
	Period      domain.Period
	PeriodStart time.Time
	Summary     string
	Metrics     domain.Payload
}

func (in *TrackerInput) clean() error {
	if !in.Period.Valid() {
		return invalid("period must be WEEKLY or MONTHLY")
	}
	if in.PeriodStart.IsZero() {
		return invalid("period start is required")
	}
	y, m, d := in.PeriodStart.UTC().Date()
	in.PeriodStart = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	in.Summary = sanitizeText(in.Summary)
	if utf8.RuneCountInString(in.Summary) > MaxSummaryLength {
		return invalid("summary is too long")
	}
	if err := in.Metrics.Normalize(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// List returns a startup's tracker entries, latest period first.
func (s *TrackerService) List(ctx context.Context, startupID string, p domain.Principal) ([]domain.TrackerEntry, error) {
	var out []domain.TrackerEntry
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, startupID, p, access.OpRead); err != nil {
			return err
		}
		var err error
		if out, err = tx.Trackers().ListTrackers(ctx, startupID); err != nil {
			return fmt.Errorf("list trackers: %w", err)
		}
		return nil
	})
	return out, err
}

// Create records a tracker entry. There is one entry per period start.
func (s *TrackerService) Create(ctx context.Context, startupID string, p domain.Principal, in TrackerInput) (domain.TrackerEntry, error) {
	if err := in.clean(); err != nil {
		return domain.TrackerEntry{}, err
	}

	now := s.Now.now()
	t := domain.TrackerEntry{
		ID:          idx.NewAt(now).String(),
		StartupID:   startupID,
		Period:      in.Period,
		PeriodStart: in.PeriodStart,
		Summary:     in.Summary,
		Metrics:     in.Metrics,
		CreatedBy:   p.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, startupID, p, access.OpWrite); err != nil {
			return err
		}
		if err := tx.Trackers().CreateTracker(ctx, t); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyExists
			}
			return fmt.Errorf("create tracker: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.TrackerEntry{}, err
	}
	return t, nil
}

// Update replaces a tracker entry's content.
func (s *TrackerService) Update(ctx context.Context, startupID, trackerID string, p domain.Principal, in TrackerInput) (domain.TrackerEntry, error) {
	if err := in.clean(); err != nil {
		return domain.TrackerEntry{}, err
	}

	var t domain.TrackerEntry
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, startupID, p, access.OpWrite); err != nil {
			return err
		}

		var err error
		t, err = tx.Trackers().GetTracker(ctx, startupID, trackerID)
		if err != nil {
			return notFoundAs(err, ErrNotFound, "get tracker")
		}
		t.Period = in.Period
		t.PeriodStart = in.PeriodStart
		t.Summary = in.Summary
		t.Metrics = in.Metrics
		t.UpdatedAt = s.Now.now()

		if err := tx.Trackers().UpdateTracker(ctx, t); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyExists
			}
			return notFoundAs(err, ErrNotFound, "update tracker")
		}
		return nil
	})
	if err != nil {
		return domain.TrackerEntry{}, err
	}
	return t, nil
}

func (s *TrackerService) Delete(ctx context.Context, startupID, trackerID string, p domain.Principal) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, startupID, p, access.OpWrite); err != nil {
			return err
		}
		if err := tx.Trackers().DeleteTracker(ctx, startupID, trackerID); err != nil {
			return notFoundAs(err, ErrNotFound, "delete tracker")
		}
		return nil
	})
}
