package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/access"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/notify"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
	"github.com/aussiebroadwan/launchpad/pkg/cryptox"
	"github.com/aussiebroadwan/launchpad/pkg/idx"
	"github.com/aussiebroadwan/launchpad/pkg/slogx"
)

// DefaultInviteTTL is how long an invite link stays redeemable.
const DefaultInviteTTL = 7 * 24 * time.Hour

type InviteService struct {
	Store store.Store

	// Mailer is optional. Without it invites are only returned to the owner.
	Mailer notify.Mailer

	// BaseURL is the public origin redemption links point at.
	BaseURL string
	TTL     time.Duration
	Now     Clock
}

// IssuedInvite is returned exactly once: Token and URL are never stored.
type IssuedInvite struct {
	Invite domain.Invite
	Token  string
	URL    string
}

// InviteView is what a prospective redeemer may see about an invite.
type InviteView struct {
	InviteID    string
	Type        domain.InviteType
	ExpiresAt   time.Time
	StartupID   string
	StartupName string
	Industry    string
	Stage       domain.Stage
}

// InviteListing is an invite with its derived lifecycle state.
type InviteListing struct {
	domain.Invite
	Status domain.InviteStatus
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultInviteTTL
	}
	return s.TTL
}

// URLFor builds the redemption link for a raw token.
func (s *InviteService) URLFor(token string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/invite/" + token
}

// Issue creates an invite link for startupID. Only the owner may issue, and
// a startup can have at most one outstanding mentor invite and only while
// it has no mentor.
func (s *InviteService) Issue(
	ctx context.Context,
	startupID string,
	p domain.Principal,
	typ domain.InviteType,
	email string,
) (IssuedInvite, error) {
	log := slogx.FromContext(ctx)

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return IssuedInvite{}, fmt.Errorf("generate invite token: %w", err)
	}

	now := s.Now.now()
	inv := domain.Invite{
		ID:        idx.NewAt(now).String(),
		StartupID: startupID,
		CreatedBy: p.UserID,
		Type:      typ,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: now.Add(s.ttl()),
		IsActive:  true,
		CreatedAt: now,
	}

	var startupName string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// The lock serialises concurrent issuers of the same startup so the
		// mentor checks below can't both pass.
		if err := tx.Startups().LockStartup(ctx, startupID); err != nil {
			return notFoundAs(err, ErrNotFound, "lock startup")
		}

		snap, _, err := authorize(ctx, tx, startupID, p, access.OpWrite)
		if err != nil {
			return err
		}
		startupName = snap.Startup.Name

		// Input is checked only once the caller is known to be the owner,
		// so outsiders learn nothing beyond forbidden.
		if !typ.Valid() {
			return invalid("invite type must be MENTOR or INVESTOR")
		}
		if email != "" {
			if email, err = normalizeEmail(email); err != nil {
				return err
			}
			inv.Email = email
		}

		if typ == domain.InviteMentor {
			if snap.Mentor != nil {
				return ErrAlreadyAssigned
			}
			pending, err := tx.Invites().HasIssuedMentorInvite(ctx, startupID, now)
			if err != nil {
				return fmt.Errorf("check mentor invites: %w", err)
			}
			if pending {
				return ErrDuplicateActiveInvite
			}
		}

		if err := tx.Invites().CreateInvite(ctx, inv); err != nil {
			return fmt.Errorf("create invite: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Warn("invite not issued",
			slog.String("startup_id", startupID),
			slog.String("type", string(typ)),
			slog.Any("error", err),
		)
		return IssuedInvite{}, err
	}

	issued := IssuedInvite{Invite: inv, Token: token, URL: s.URLFor(token)}

	log.Info("invite issued",
		slog.String("invite_id", inv.ID),
		slog.String("startup_id", startupID),
		slog.String("type", string(typ)),
		slogx.Secret("token_ref", inv.TokenHash),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	if email != "" && s.Mailer != nil {
		err := notify.SendInvite(ctx, s.Mailer, notify.Invite{
			To:          email,
			StartupName: startupName,
			Type:        string(typ),
			URL:         issued.URL,
			ExpiresAt:   inv.ExpiresAt,
		})
		if err != nil {
			log.Error("failed to send invite email",
				slog.String("invite_id", inv.ID),
				slog.Any("error", err),
			)
		}
	}

	return issued, nil
}

// checkInvite applies the redeemability rules in their fixed order.
func checkInvite(inv domain.Invite, p domain.Principal, now time.Time) error {
	switch {
	case inv.UsedAt != nil:
		return ErrAlreadyUsed
	case !inv.IsActive:
		return ErrRevoked
	case now.After(inv.ExpiresAt):
		return ErrExpired
	case p.Role != inv.Type.Role():
		return ErrRoleMismatch
	}
	return nil
}

// Validate reports whether p could redeem token right now. It has no side
// effects.
func (s *InviteService) Validate(ctx context.Context, token string, p domain.Principal) (InviteView, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return InviteView{}, ErrNotFound
	}
	hash := cryptox.FingerprintToken(token)
	now := s.Now.now()

	var view InviteView
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		inv, err := tx.Invites().GetInviteByTokenHash(ctx, hash)
		if err != nil {
			return notFoundAs(err, ErrNotFound, "get invite")
		}
		if err := checkInvite(inv, p, now); err != nil {
			return err
		}

		st, err := tx.Startups().GetStartup(ctx, inv.StartupID)
		if err != nil {
			return notFoundAs(err, ErrNotFound, "get startup")
		}

		view = InviteView{
			InviteID:    inv.ID,
			Type:        inv.Type,
			ExpiresAt:   inv.ExpiresAt,
			StartupID:   st.ID,
			StartupName: st.Name,
			Industry:    st.Industry,
			Stage:       st.Stage,
		}
		return nil
	})
	if err != nil {
		log.Debug("invite validation failed",
			slogx.Secret("token_ref", hash),
			slog.Any("error", err),
		)
		return InviteView{}, err
	}
	return view, nil
}

// Redeem grants p access to the invite's startup and consumes the invite.
// The grant and the used marker commit together or not at all.
func (s *InviteService) Redeem(ctx context.Context, token string, p domain.Principal) (string, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return "", ErrNotFound
	}
	hash := cryptox.FingerprintToken(token)
	now := s.Now.now()

	var inv domain.Invite
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		inv, err = tx.Invites().LockInviteByTokenHash(ctx, hash)
		if err != nil {
			return notFoundAs(err, ErrNotFound, "lock invite")
		}
		if err := checkInvite(inv, p, now); err != nil {
			return err
		}

		user, err := tx.Users().GetUserByID(ctx, p.UserID)
		if err != nil {
			return notFoundAs(err, ErrForbidden, "get redeemer")
		}

		switch inv.Type {
		case domain.InviteMentor:
			if _, err := tx.Access().GetMentorAccess(ctx, inv.StartupID); err == nil {
				return ErrAlreadyAssigned
			} else if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("get mentor access: %w", err)
			}
			err = tx.Access().CreateMentorAccess(ctx, domain.MentorAccess{
				StartupID: inv.StartupID,
				MentorID:  p.UserID,
				JoinedAt:  now,
			})
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyAssigned
			}
			if err != nil {
				return fmt.Errorf("create mentor access: %w", err)
			}

		case domain.InviteInvestor:
			if _, err := tx.Access().GetInvestorAccess(ctx, inv.StartupID, p.UserID); err == nil {
				return ErrAlreadyMember
			} else if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("get investor access: %w", err)
			}
			err = tx.Access().CreateInvestorAccess(ctx, domain.InvestorAccess{
				StartupID:  inv.StartupID,
				InvestorID: p.UserID,
				JoinedAt:   now,
			})
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyMember
			}
			if err != nil {
				return fmt.Errorf("create investor access: %w", err)
			}
		}

		ok, err := tx.Invites().MarkInviteUsed(ctx, inv.ID, user.Email, now)
		if err != nil {
			return fmt.Errorf("mark invite used: %w", err)
		}
		if !ok {
			return ErrAlreadyUsed
		}
		return nil
	})
	if err != nil {
		log.Warn("invite redemption failed",
			slogx.Secret("token_ref", hash),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Info("invite redeemed",
		slog.String("invite_id", inv.ID),
		slog.String("startup_id", inv.StartupID),
		slog.String("type", string(inv.Type)),
	)
	return inv.StartupID, nil
}

// Revoke deactivates an invite. Revoking an invite that is already
// inactive or used succeeds without changing it.
func (s *InviteService) Revoke(ctx context.Context, inviteID string, p domain.Principal) error {
	log := slogx.FromContext(ctx)

	changed := false
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		inv, err := tx.Invites().GetInviteByID(ctx, inviteID)
		if err != nil {
			return notFoundAs(err, ErrNotFound, "get invite")
		}

		if _, _, err := authorize(ctx, tx, inv.StartupID, p, access.OpWrite); err != nil {
			return err
		}

		if !inv.IsActive {
			return nil
		}
		if err := tx.Invites().DeactivateInvite(ctx, inv.ID); err != nil {
			return fmt.Errorf("deactivate invite: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		log.Info("invite revoked", slog.String("invite_id", inviteID))
	}
	return nil
}

// List returns every invite of a startup, newest first. Owner only.
func (s *InviteService) List(ctx context.Context, startupID string, p domain.Principal) ([]InviteListing, error) {
	now := s.Now.now()

	var out []InviteListing
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, _, err := authorize(ctx, tx, startupID, p, access.OpWrite); err != nil {
			return err
		}

		invites, err := tx.Invites().ListInvites(ctx, startupID)
		if err != nil {
			return fmt.Errorf("list invites: %w", err)
		}

		out = make([]InviteListing, 0, len(invites))
		for _, inv := range invites {
			out = append(out, InviteListing{Invite: inv, Status: inv.Status(now)})
		}
		return nil
	})
	return out, err
}
