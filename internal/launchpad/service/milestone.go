package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/access"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
	"github.com/aussiebroadwan/launchpad/pkg/idx"
)

const MaxTitleLength = 200

type MilestoneService struct {
	Store store.Store
	Now   Clock
}

type MilestoneInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Status      domain.MilestoneStatus
}

// MilestonePatch updates only the fields that are set. ClearDueDate removes
// the due date and wins over DueDate.
type MilestonePatch struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
	Status       *domain.MilestoneStatus
}

func cleanMilestone(m *domain.Milestone) error {
	m.Title = sanitizeText(m.Title)
	if m.Title == "" {
		return invalid("title is required")
	}
	if utf8.RuneCountInString(m.Title) > MaxTitleLength {
		return invalid("title is too long")
	}
	m.Description = sanitizeText(m.Description)
	if utf8.RuneCountInString(m.Description) > MaxDescriptionLength {
		return invalid("description is too long")
	}
	if !m.Status.Valid() {
		return invalid("unknown status %q", m.Status)
	}
	return nil
}

// setStatus moves m to status, keeping CompletedAt in step: it is stamped
// when the milestone becomes DONE and cleared when it leaves DONE.
func setStatus(m *domain.Milestone, status domain.MilestoneStatus, now time.Time) {
	switch {
	case status == domain.MilestoneDone && m.CompletedAt == nil:
		m.CompletedAt = &now
	case status != domain.MilestoneDone:
		m.CompletedAt = nil
	}
	m.Status = status
}

func (s *MilestoneService) List(ctx context.Context, startupID string, p domain.Principal) ([]domain.Milestone, error) {
	var out []domain.Milestone
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, startupID, p, access.OpRead); err != nil {
			return err
		}
		var err error
		if out, err = tx.Milestones().ListMilestones(ctx, startupID); err != nil {
			return fmt.Errorf("list milestones: %w", err)
		}
		return nil
	})
	return out, err
}

func (s *MilestoneService) Create(ctx context.Context, startupID string, p domain.Principal, in MilestoneInput) (domain.Milestone, error) {
	now := s.Now.now()
	m := domain.Milestone{
		ID:          idx.NewAt(now).String(),
		StartupID:   startupID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	status := in.Status
	if status == "" {
		status = domain.MilestonePlanned
	}
	setStatus(&m, status, now)
	if err := cleanMilestone(&m); err != nil {
		return domain.Milestone{}, err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, startupID, p, access.OpWrite); err != nil {
			return err
		}
		if err := tx.Milestones().CreateMilestone(ctx, m); err != nil {
			return fmt.Errorf("create milestone: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Milestone{}, err
	}
	return m, nil
}

func (s *MilestoneService) Update(ctx context.Context, startupID, milestoneID string, p domain.Principal, patch MilestonePatch) (domain.Milestone, error) {
	var m domain.Milestone
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, startupID, p, access.OpWrite); err != nil {
			return err
		}

		var err error
		m, err = tx.Milestones().GetMilestone(ctx, startupID, milestoneID)
		if err != nil {
			return notFoundAs(err, ErrNotFound, "get milestone")
		}

		now := s.Now.now()
		if patch.Title != nil {
			m.Title = *patch.Title
		}
		if patch.Description != nil {
			m.Description = *patch.Description
		}
		switch {
		case patch.ClearDueDate:
			m.DueDate = nil
		case patch.DueDate != nil:
			m.DueDate = patch.DueDate
		}
		if patch.Status != nil {
			setStatus(&m, *patch.Status, now)
		}
		if err := cleanMilestone(&m); err != nil {
			return err
		}
		m.UpdatedAt = now

		if err := tx.Milestones().UpdateMilestone(ctx, m); err != nil {
			return notFoundAs(err, ErrNotFound, "update milestone")
		}
		return nil
	})
	if err != nil {
		return domain.Milestone{}, err
	}
	return m, nil
}

func (s *MilestoneService) Delete(ctx context.Context, startupID, milestoneID string, p domain.Principal) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, startupID, p, access.OpWrite); err != nil {
			return err
		}
		if err := tx.Milestones().DeleteMilestone(ctx, startupID, milestoneID); err != nil {
			return notFoundAs(err, ErrNotFound, "delete milestone")
		}
		return nil
	})
}
