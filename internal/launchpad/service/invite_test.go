package service

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/pkg/cryptox"
	"github.com/aussiebroadwan/launchpad/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestInviteMentorLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	mentor := f.user(t, domain.RoleMentor, "max@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	issued, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteMentor, "")
	require.NoError(t, err)
	require.Equal(t, "https://launchpad.example.com/invite/"+issued.Token, issued.URL)
	require.Equal(t, cryptox.FingerprintToken(issued.Token), issued.Invite.TokenHash)
	require.Equal(t, f.clock.Now().Add(DefaultInviteTTL), issued.Invite.ExpiresAt)
	require.True(t, issued.Invite.IsActive)
	require.Nil(t, issued.Invite.UsedAt)
	require.Empty(t, f.mailer.sent, "no email without an address")

	f.clock.Advance(6 * 24 * time.Hour)

	view, err := f.invites.Validate(ctx, issued.Token, mentor)
	require.NoError(t, err)
	require.Equal(t, domain.InviteMentor, view.Type)
	require.Equal(t, st.ID, view.StartupID)
	require.Equal(t, "Acme Rockets", view.StartupName)
	require.Equal(t, "Fintech", view.Industry)
	require.Equal(t, domain.StagePrototype, view.Stage)

	startupID, err := f.invites.Redeem(ctx, issued.Token, mentor)
	require.NoError(t, err)
	require.Equal(t, st.ID, startupID)

	_, err = f.invites.Redeem(ctx, issued.Token, mentor)
	require.ErrorIs(t, err, ErrAlreadyUsed)

	inv, err := f.store.Invites().GetInviteByID(ctx, issued.Invite.ID)
	require.NoError(t, err)
	require.NotNil(t, inv.UsedAt)
	require.Equal(t, "max@example.com", inv.UsedBy)
	require.False(t, inv.IsActive)

	got, err := f.store.Access().GetMentorAccess(ctx, st.ID)
	require.NoError(t, err)
	require.Equal(t, mentor.UserID, got.MentorID)
}

func TestIssueMentorInviteWhenMentorAssigned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.world(t)

	before, err := f.invites.List(ctx, w.startup.ID, w.owner)
	require.NoError(t, err)

	_, err = f.invites.Issue(ctx, w.startup.ID, w.owner, domain.InviteMentor, "")
	require.ErrorIs(t, err, ErrAlreadyAssigned)
	require.ErrorIs(t, err, ErrConflict)

	after, err := f.invites.List(ctx, w.startup.ID, w.owner)
	require.NoError(t, err)
	require.Len(t, after, len(before), "no invite is created")
}

func TestRedeemSecondInvestorInviteBySameUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	investor := f.user(t, domain.RoleInvestor, "ivy@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	first, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteInvestor, "")
	require.NoError(t, err)
	_, err = f.invites.Redeem(ctx, first.Token, investor)
	require.NoError(t, err)

	second, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteInvestor, "")
	require.NoError(t, err)
	_, err = f.invites.Redeem(ctx, second.Token, investor)
	require.ErrorIs(t, err, ErrAlreadyMember)

	inv, err := f.store.Invites().GetInviteByID(ctx, second.Invite.ID)
	require.NoError(t, err)
	require.Nil(t, inv.UsedAt, "a failed redeem leaves the invite untouched")
	require.True(t, inv.IsActive)

	members, err := f.store.Access().CountMembers(ctx, st.ID)
	require.NoError(t, err)
	require.Equal(t, 1, members)
}

func TestValidateExpiredInvite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	mentor := f.user(t, domain.RoleMentor, "max@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	issued, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteMentor, "")
	require.NoError(t, err)

	// Exactly at expiry is still valid; one second later is not.
	f.clock.Advance(DefaultInviteTTL)
	_, err = f.invites.Validate(ctx, issued.Token, mentor)
	require.NoError(t, err)

	f.clock.Advance(time.Second)
	_, err = f.invites.Validate(ctx, issued.Token, mentor)
	require.ErrorIs(t, err, ErrExpired)

	_, err = f.invites.Redeem(ctx, issued.Token, mentor)
	require.ErrorIs(t, err, ErrExpired)

	inv, err := f.store.Invites().GetInviteByID(ctx, issued.Invite.ID)
	require.NoError(t, err)
	require.True(t, inv.IsActive)
	require.Nil(t, inv.UsedAt)
}

func TestValidateRoleMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	investor := f.user(t, domain.RoleInvestor, "ivy@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	issued, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteMentor, "")
	require.NoError(t, err)

	_, err = f.invites.Validate(ctx, issued.Token, investor)
	require.ErrorIs(t, err, ErrRoleMismatch)

	_, err = f.invites.Redeem(ctx, issued.Token, investor)
	require.ErrorIs(t, err, ErrRoleMismatch)

	// The owner can't redeem their own invite either.
	_, err = f.invites.Redeem(ctx, issued.Token, owner)
	require.ErrorIs(t, err, ErrRoleMismatch)
}

func TestValidateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	investor := f.user(t, domain.RoleInvestor, "ivy@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	issued, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteInvestor, "")
	require.NoError(t, err)

	first, err := f.invites.Validate(ctx, issued.Token, investor)
	require.NoError(t, err)
	for range 5 {
		again, err := f.invites.Validate(ctx, issued.Token, investor)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}

	inv, err := f.store.Invites().GetInviteByID(ctx, issued.Invite.ID)
	require.NoError(t, err)
	require.Equal(t, issued.Invite.ExpiresAt, inv.ExpiresAt)
	require.Nil(t, inv.UsedAt)
	require.True(t, inv.IsActive)
}

func TestValidateUnknownToken(t *testing.T) {
	f := newFixture(t)
	investor := f.user(t, domain.RoleInvestor, "ivy@example.com")

	_, err := f.invites.Validate(context.Background(), "not-a-real-token", investor)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.invites.Validate(context.Background(), "", investor)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.invites.Redeem(context.Background(), "not-a-real-token", investor)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCheckInviteOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	used := now.Add(-time.Hour)
	mentor := domain.Principal{UserID: "m", Role: domain.RoleMentor}
	investor := domain.Principal{UserID: "i", Role: domain.RoleInvestor}

	cases := []struct {
		name string
		inv  domain.Invite
		p    domain.Principal
		want error
	}{
		{
			name: "used beats everything",
			inv:  domain.Invite{Type: domain.InviteMentor, UsedAt: &used, ExpiresAt: now.Add(-time.Minute)},
			p:    investor,
			want: ErrAlreadyUsed,
		},
		{
			name: "revoked beats expired",
			inv:  domain.Invite{Type: domain.InviteMentor, ExpiresAt: now.Add(-time.Minute)},
			p:    investor,
			want: ErrRevoked,
		},
		{
			name: "expired beats role mismatch",
			inv:  domain.Invite{Type: domain.InviteMentor, IsActive: true, ExpiresAt: now.Add(-time.Second)},
			p:    investor,
			want: ErrExpired,
		},
		{
			name: "role mismatch",
			inv:  domain.Invite{Type: domain.InviteMentor, IsActive: true, ExpiresAt: now.Add(time.Hour)},
			p:    investor,
			want: ErrRoleMismatch,
		},
		{
			name: "ok",
			inv:  domain.Invite{Type: domain.InviteMentor, IsActive: true, ExpiresAt: now},
			p:    mentor,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkInvite(tc.inv, tc.p, now)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestIssueValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.world(t)

	_, err := f.invites.Issue(ctx, w.startup.ID, w.owner, domain.InviteType("ADVISOR"), "")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.invites.Issue(ctx, w.startup.ID, w.owner, domain.InviteInvestor, "not-an-email")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.invites.Issue(ctx, "01JNOTASTARTUP000000000000", w.owner, domain.InviteInvestor, "")
	require.ErrorIs(t, err, ErrNotFound)

	for _, p := range []domain.Principal{w.mentor, w.investor, w.stranger} {
		_, err = f.invites.Issue(ctx, w.startup.ID, p, domain.InviteInvestor, "")
		require.ErrorIs(t, err, ErrForbidden)

		// Non-owners are refused before their input is looked at.
		_, err = f.invites.Issue(ctx, w.startup.ID, p, domain.InviteType("BOGUS"), "not-an-email")
		require.ErrorIs(t, err, ErrForbidden)
	}
}

func TestIssueDuplicateMentorInvite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	first, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteMentor, "")
	require.NoError(t, err)

	_, err = f.invites.Issue(ctx, st.ID, owner, domain.InviteMentor, "")
	require.ErrorIs(t, err, ErrDuplicateActiveInvite)

	// Investor invites are unrestricted.
	for range 3 {
		_, err = f.invites.Issue(ctx, st.ID, owner, domain.InviteInvestor, "")
		require.NoError(t, err)
	}

	// Once the pending invite expires a new one may be issued.
	f.clock.Advance(DefaultInviteTTL + time.Second)
	second, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteMentor, "")
	require.NoError(t, err)

	// Same after revoking.
	require.NoError(t, f.invites.Revoke(ctx, second.Invite.ID, owner))
	_, err = f.invites.Issue(ctx, st.ID, owner, domain.InviteMentor, "")
	require.NoError(t, err)

	require.NotEqual(t, first.Token, second.Token)
}

func TestIssueSendsEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	issued, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteInvestor, "  Ivy@Example.com ")
	require.NoError(t, err)
	require.Equal(t, "ivy@example.com", issued.Invite.Email)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	require.Equal(t, "ivy@example.com", msg.To)
	require.Contains(t, msg.Text, issued.URL)
	require.Contains(t, msg.Subject, "Acme Rockets")

	// Mail failures never fail the issue.
	f.mailer.err = errMailDown
	_, err = f.invites.Issue(ctx, st.ID, owner, domain.InviteInvestor, "other@example.com")
	require.NoError(t, err)
	require.Len(t, f.mailer.sent, 2)
}

func TestInviteEmailIsAdvisory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	investor := f.user(t, domain.RoleInvestor, "someone-else@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	issued, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteInvestor, "ivy@example.com")
	require.NoError(t, err)

	_, err = f.invites.Redeem(ctx, issued.Token, investor)
	require.NoError(t, err)
}

func TestRedeemRechecksState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	mentor := f.user(t, domain.RoleMentor, "max@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	issued, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteMentor, "")
	require.NoError(t, err)
	_, err = f.invites.Validate(ctx, issued.Token, mentor)
	require.NoError(t, err)

	require.NoError(t, f.invites.Revoke(ctx, issued.Invite.ID, owner))

	_, err = f.invites.Redeem(ctx, issued.Token, mentor)
	require.ErrorIs(t, err, ErrRevoked)

	_, err = f.store.Access().GetMentorAccess(ctx, st.ID)
	require.Error(t, err, "no access granted")
}

func TestRedeemMentorInviteAfterMentorAssigned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	first := f.user(t, domain.RoleMentor, "max@example.com")
	second := f.user(t, domain.RoleMentor, "mia@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	issued, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteMentor, "")
	require.NoError(t, err)

	// A mentor slipped in between issue and redeem through the store.
	require.NoError(t, f.store.Access().CreateMentorAccess(ctx, domain.MentorAccess{
		StartupID: st.ID,
		MentorID:  first.UserID,
		JoinedAt:  f.clock.Now(),
	}))

	_, err = f.invites.Redeem(ctx, issued.Token, second)
	require.ErrorIs(t, err, ErrAlreadyAssigned)

	got, err := f.store.Access().GetMentorAccess(ctx, st.ID)
	require.NoError(t, err)
	require.Equal(t, first.UserID, got.MentorID)
}

func TestConcurrentRedeemSucceedsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	const n = 8
	investors := make([]domain.Principal, n)
	for i := range investors {
		investors[i] = f.user(t, domain.RoleInvestor, "investor"+string(rune('a'+i))+"@example.com")
	}

	issued, err := f.invites.Issue(ctx, st.ID, owner, domain.InviteInvestor, "")
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		errs = make([]error, n)
	)
	start := make(chan struct{})
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, errs[i] = f.invites.Redeem(ctx, issued.Token, investors[i])
		}()
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrAlreadyUsed)
	}
	require.Equal(t, 1, succeeded)

	members, err := f.store.Access().CountMembers(ctx, st.ID)
	require.NoError(t, err)
	require.Equal(t, 1, members)
}

func TestConcurrentMentorIssueSucceedsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.user(t, domain.RoleStartup, "olive@example.com")
	st := f.startup(t, owner, "Acme Rockets")

	const n = 6
	var (
		wg   sync.WaitGroup
		errs = make([]error, n)
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.invites.Issue(ctx, st.ID, owner, domain.InviteMentor, "")
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrDuplicateActiveInvite)
	}
	require.Equal(t, 1, succeeded)
}

func TestRevoke(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.world(t)

	pending, err := f.invites.Issue(ctx, w.startup.ID, w.owner, domain.InviteInvestor, "")
	require.NoError(t, err)

	require.ErrorIs(t, f.invites.Revoke(ctx, pending.Invite.ID, w.mentor), ErrForbidden)
	require.ErrorIs(t, f.invites.Revoke(ctx, pending.Invite.ID, w.stranger), ErrForbidden)
	require.ErrorIs(t, f.invites.Revoke(ctx, "01JNOTANINVITE000000000000", w.owner), ErrNotFound)

	require.NoError(t, f.invites.Revoke(ctx, pending.Invite.ID, w.owner))
	require.NoError(t, f.invites.Revoke(ctx, pending.Invite.ID, w.owner), "revoke is idempotent")

	inv, err := f.store.Invites().GetInviteByID(ctx, pending.Invite.ID)
	require.NoError(t, err)
	require.False(t, inv.IsActive)
	require.Nil(t, inv.UsedAt)

	// Revoking a redeemed invite succeeds and keeps its usage.
	listing, err := f.invites.List(ctx, w.startup.ID, w.owner)
	require.NoError(t, err)
	var redeemed domain.Invite
	for _, l := range listing {
		if l.Status == domain.InviteRedeemed {
			redeemed = l.Invite
			break
		}
	}
	require.NotEmpty(t, redeemed.ID)

	require.NoError(t, f.invites.Revoke(ctx, redeemed.ID, w.owner))
	after, err := f.store.Invites().GetInviteByID(ctx, redeemed.ID)
	require.NoError(t, err)
	require.Equal(t, redeemed.UsedAt, after.UsedAt)
	require.Equal(t, redeemed.UsedBy, after.UsedBy)
}

func TestListInvites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.world(t)

	expiring, err := f.invites.Issue(ctx, w.startup.ID, w.owner, domain.InviteInvestor, "")
	require.NoError(t, err)
	f.clock.Advance(DefaultInviteTTL + time.Minute)

	revoked, err := f.invites.Issue(ctx, w.startup.ID, w.owner, domain.InviteInvestor, "")
	require.NoError(t, err)
	require.NoError(t, f.invites.Revoke(ctx, revoked.Invite.ID, w.owner))

	f.clock.Advance(time.Minute)
	live, err := f.invites.Issue(ctx, w.startup.ID, w.owner, domain.InviteInvestor, "")
	require.NoError(t, err)

	listing, err := f.invites.List(ctx, w.startup.ID, w.owner)
	require.NoError(t, err)
	require.Len(t, listing, 5)

	status := map[string]domain.InviteStatus{}
	for _, l := range listing {
		status[l.ID] = l.Status
	}
	require.Equal(t, domain.InviteIssued, status[live.Invite.ID])
	require.Equal(t, domain.InviteRevoked, status[revoked.Invite.ID])
	require.Equal(t, domain.InviteExpired, status[expiring.Invite.ID])
	require.Equal(t, live.Invite.ID, listing[0].ID, "newest first")

	_, err = f.invites.List(ctx, w.startup.ID, w.investor)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestInviteLogsRedactTokens(t *testing.T) {
	f := newFixture(t)
	w := f.world(t)

	var buf bytes.Buffer
	ctx := slogx.WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	issued, err := f.invites.Issue(ctx, w.startup.ID, w.owner, domain.InviteInvestor, "")
	require.NoError(t, err)
	_, err = f.invites.Validate(ctx, issued.Token, w.mentor)
	require.ErrorIs(t, err, ErrRoleMismatch)

	logs := buf.String()
	fp := cryptox.FingerprintToken(issued.Token)
	require.NotContains(t, logs, issued.Token)
	require.NotContains(t, logs, fp)
	require.Contains(t, logs, `"token_ref":"`+fp[:6]+`..."`)
}

func TestRevokeLogsOnlyWhenChanged(t *testing.T) {
	f := newFixture(t)
	w := f.world(t)

	var buf bytes.Buffer
	ctx := slogx.WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	issued, err := f.invites.Issue(ctx, w.startup.ID, w.owner, domain.InviteInvestor, "")
	require.NoError(t, err)

	require.NoError(t, f.invites.Revoke(ctx, issued.Invite.ID, w.owner))
	require.NoError(t, f.invites.Revoke(ctx, issued.Invite.ID, w.owner))
	require.Equal(t, 1, strings.Count(buf.String(), `"msg":"invite revoked"`))
}
