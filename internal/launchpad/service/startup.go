package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"unicode/utf8"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/access"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
	"github.com/aussiebroadwan/launchpad/pkg/idx"
	"github.com/aussiebroadwan/launchpad/pkg/slogx"
	"github.com/gosimple/slug"
)

const (
	MaxStartupNameLength = 120
	MaxDescriptionLength = 4000
	maxShortFieldLength  = 200
)

type StartupService struct {
	Store store.Store
	Now   Clock
}

// StartupInput is the full set of editable fields.
type StartupInput struct {
	Name     string
	Industry string
	Stage    domain.Stage
	Metadata domain.StartupMetadata
}

// StartupPatch updates only the fields that are set.
type StartupPatch struct {
	Name               *string
	Industry           *string
	Stage              *domain.Stage
	RegistrationNumber *string
	ContactEmail       *string
	ContactPhone       *string
	Website            *string
	Description        *string
}

// StartupView is a startup along with the caller's access level on it.
type StartupView struct {
	domain.Startup
	Access access.Level
}

// cleanStartup sanitises and validates fields in place.
func cleanStartup(st *domain.Startup) error {
	st.Name = sanitizeText(st.Name)
	if st.Name == "" {
		return invalid("name is required")
	}
	if utf8.RuneCountInString(st.Name) > MaxStartupNameLength {
		return invalid("name is too long")
	}
	if st.Stage == "" {
		st.Stage = domain.StageIdeation
	}
	if !st.Stage.Valid() {
		return invalid("unknown stage %q", st.Stage)
	}

	st.Industry = sanitizeText(st.Industry)
	m := &st.Metadata
	m.RegistrationNumber = sanitizeText(m.RegistrationNumber)
	m.ContactPhone = sanitizeText(m.ContactPhone)
	m.Description = sanitizeText(m.Description)
	for _, v := range []string{st.Industry, m.RegistrationNumber, m.ContactPhone} {
		if utf8.RuneCountInString(v) > maxShortFieldLength {
			return invalid("field is too long")
		}
	}
	if utf8.RuneCountInString(m.Description) > MaxDescriptionLength {
		return invalid("description is too long")
	}

	if m.ContactEmail != "" {
		email, err := normalizeEmail(m.ContactEmail)
		if err != nil {
			return err
		}
		m.ContactEmail = email
	}
	if m.Website != "" {
		u, err := url.Parse(m.Website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("website must be an http(s) URL")
		}
	}

	st.Slug = slug.Make(st.Name)
	if st.Slug == "" {
		st.Slug = "startup"
	}
	return nil
}

// Create registers a startup owned by p. Only STARTUP users may create one,
// and each may own at most one.
func (s *StartupService) Create(ctx context.Context, p domain.Principal, in StartupInput) (domain.Startup, error) {
	if p.Role != domain.RoleStartup {
		return domain.Startup{}, ErrForbidden
	}

	now := s.Now.now()
	st := domain.Startup{
		ID:        idx.NewAt(now).String(),
		OwnerID:   p.UserID,
		Name:      in.Name,
		Industry:  in.Industry,
		Stage:     in.Stage,
		Metadata:  in.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := cleanStartup(&st); err != nil {
		return domain.Startup{}, err
	}

	if err := s.Store.Startups().CreateStartup(ctx, st); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Startup{}, ErrAlreadyExists
		}
		return domain.Startup{}, fmt.Errorf("create startup: %w", err)
	}

	slogx.FromContext(ctx).Info("startup created",
		slog.String("startup_id", st.ID),
		slog.String("slug", st.Slug),
	)
	return st, nil
}

// Get returns a startup p can read.
func (s *StartupService) Get(ctx context.Context, id string, p domain.Principal) (StartupView, error) {
	var view StartupView
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		snap, level, err := authorize(ctx, tx, id, p, access.OpRead)
		if err != nil {
			return err
		}
		view = StartupView{Startup: snap.Startup, Access: level}
		return nil
	})
	return view, err
}

// Update applies patch. Owner only. Renaming recomputes the slug.
func (s *StartupService) Update(ctx context.Context, id string, p domain.Principal, patch StartupPatch) (domain.Startup, error) {
	var st domain.Startup
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		snap, _, err := authorize(ctx, tx, id, p, access.OpWrite)
		if err != nil {
			return err
		}
		st = snap.Startup

		set := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		set(&st.Name, patch.Name)
		set(&st.Industry, patch.Industry)
		set(&st.Metadata.RegistrationNumber, patch.RegistrationNumber)
		set(&st.Metadata.ContactEmail, patch.ContactEmail)
		set(&st.Metadata.ContactPhone, patch.ContactPhone)
		set(&st.Metadata.Website, patch.Website)
		set(&st.Metadata.Description, patch.Description)
		if patch.Stage != nil {
			st.Stage = *patch.Stage
			if st.Stage == "" {
				return invalid("stage cannot be empty")
			}
		}
		if err := cleanStartup(&st); err != nil {
			return err
		}
		st.UpdatedAt = s.Now.now()

		if err := tx.Startups().UpdateStartup(ctx, st); err != nil {
			return notFoundAs(err, ErrNotFound, "update startup")
		}
		return nil
	})
	if err != nil {
		return domain.Startup{}, err
	}
	return st, nil
}

// Delete removes a startup and everything scoped to it. Owner only, and
// only once every mentor and investor has been removed.
func (s *StartupService) Delete(ctx context.Context, id string, p domain.Principal) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Startups().LockStartup(ctx, id); err != nil {
			return notFoundAs(err, ErrNotFound, "lock startup")
		}
		if _, _, err := authorize(ctx, tx, id, p, access.OpWrite); err != nil {
			return err
		}

		n, err := tx.Access().CountMembers(ctx, id)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if n > 0 {
			return ErrHasMembers
		}

		if err := tx.Startups().DeleteStartup(ctx, id); err != nil {
			return notFoundAs(err, ErrNotFound, "delete startup")
		}
		return nil
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("startup deleted", slog.String("startup_id", id))
	return nil
}

// ListForPrincipal returns every startup p can see, tagged with p's level.
func (s *StartupService) ListForPrincipal(ctx context.Context, p domain.Principal) ([]StartupView, error) {
	var out []StartupView
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		startups, err := tx.Startups().ListStartupsForUser(ctx, p.UserID)
		if err != nil {
			return fmt.Errorf("list startups: %w", err)
		}

		out = make([]StartupView, 0, len(startups))
		for _, st := range startups {
			snap, err := tx.Startups().Snapshot(ctx, st.ID)
			if err != nil {
				return fmt.Errorf("load startup %s: %w", st.ID, err)
			}
			level := access.Evaluate(&snap, p.UserID)
			if !access.HasAnyAccess(level) {
				continue
			}
			out = append(out, StartupView{Startup: snap.Startup, Access: level})
		}
		return nil
	})
	return out, err
}

// Members lists the mentor and investors of a startup.
func (s *StartupService) Members(ctx context.Context, id string, p domain.Principal) ([]domain.Member, error) {
	var out []domain.Member
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, id, p, access.OpRead); err != nil {
			return err
		}
		var err error
		out, err = tx.Access().ListMembers(ctx, id)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		return nil
	})
	return out, err
}

// RemoveMentor ends the mentor's access. Owner only.
func (s *StartupService) RemoveMentor(ctx context.Context, id string, p domain.Principal) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, id, p, access.OpWrite); err != nil {
			return err
		}
		if err := tx.Access().DeleteMentorAccess(ctx, id); err != nil {
			return notFoundAs(err, ErrNotFound, "delete mentor access")
		}
		slogx.FromContext(ctx).Info("mentor removed", slog.String("startup_id", id))
		return nil
	})
}

// RemoveInvestor ends one investor's access. Owner only.
func (s *StartupService) RemoveInvestor(ctx context.Context, id, investorID string, p domain.Principal) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, id, p, access.OpWrite); err != nil {
			return err
		}
		if err := tx.Access().DeleteInvestorAccess(ctx, id, investorID); err != nil {
			return notFoundAs(err, ErrNotFound, "delete investor access")
		}
		slogx.FromContext(ctx).Info("investor removed",
			slog.String("startup_id", id),
			slog.String("investor_id", investorID),
		)
		return nil
	})
}
