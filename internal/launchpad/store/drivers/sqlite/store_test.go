package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store/drivers/sqlite"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store/drivers/sqlstore"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "launchpad.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedUser(t *testing.T, st store.Store, id string, role domain.Role) domain.User {
	t.Helper()
	u := domain.User{
		ID:           id,
		Email:        id + "@example.com",
		Name:         id,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    epoch,
		UpdatedAt:    epoch,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func seedStartup(t *testing.T, st store.Store, id, ownerID string) domain.Startup {
	t.Helper()
	s := domain.Startup{
		ID:        id,
		OwnerID:   ownerID,
		Name:      "Startup " + id,
		Slug:      "startup-" + id,
		Stage:     domain.StageIdeation,
		CreatedAt: epoch,
		UpdatedAt: epoch,
	}
	require.NoError(t, st.Startups().CreateStartup(context.Background(), s))
	return s
}

func seedInvite(t *testing.T, st store.Store, id, startupID, createdBy string, typ domain.InviteType, expiresAt time.Time) domain.Invite {
	t.Helper()
	inv := domain.Invite{
		ID:        id,
		StartupID: startupID,
		CreatedBy: createdBy,
		Type:      typ,
		TokenHash: "hash-" + id,
		ExpiresAt: expiresAt,
		IsActive:  true,
		CreatedAt: epoch,
	}
	require.NoError(t, st.Invites().CreateInvite(context.Background(), inv))
	return inv
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	owner := seedUser(t, st, "owner", domain.RoleStartup)
	mentor := seedUser(t, st, "mentor", domain.RoleMentor)
	other := seedUser(t, st, "other", domain.RoleMentor)

	dup := owner
	dup.ID = "owner-2"
	require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	s := seedStartup(t, st, "s1", owner.ID)
	second := s
	second.ID = "s2"
	require.ErrorIs(t, st.Startups().CreateStartup(ctx, second), store.ErrAlreadyExists,
		"an owner has at most one startup")

	require.NoError(t, st.Access().CreateMentorAccess(ctx, domain.MentorAccess{StartupID: s.ID, MentorID: mentor.ID, JoinedAt: epoch}))
	require.ErrorIs(t,
		st.Access().CreateMentorAccess(ctx, domain.MentorAccess{StartupID: s.ID, MentorID: other.ID, JoinedAt: epoch}),
		store.ErrAlreadyExists, "a startup has at most one mentor")

	inv := seedInvite(t, st, "i1", s.ID, owner.ID, domain.InviteInvestor, epoch.Add(time.Hour))
	clash := inv
	clash.ID = "i2"
	require.ErrorIs(t, st.Invites().CreateInvite(ctx, clash), store.ErrAlreadyExists)

	_, err := st.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMarkInviteUsedIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	owner := seedUser(t, st, "owner", domain.RoleStartup)
	s := seedStartup(t, st, "s1", owner.ID)
	inv := seedInvite(t, st, "i1", s.ID, owner.ID, domain.InviteInvestor, epoch.Add(time.Hour))

	const racers = 8
	var wg sync.WaitGroup
	won := make([]bool, racers)
	errs := make([]error, racers)
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won[i], errs[i] = st.Invites().MarkInviteUsed(ctx, inv.ID, "investor@example.com", epoch.Add(time.Duration(i)*time.Second))
		}()
	}
	wg.Wait()

	wins := 0
	for i := range racers {
		require.NoError(t, errs[i])
		if won[i] {
			wins++
		}
	}
	require.Equal(t, 1, wins)

	got, err := st.Invites().GetInviteByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UsedAt)
	require.False(t, got.IsActive)
	require.Equal(t, domain.InviteRedeemed, got.Status(epoch))

	// Deactivating a used invite must not clear its usage.
	require.NoError(t, st.Invites().DeactivateInvite(ctx, inv.ID))
	got, err = st.Invites().GetInviteByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UsedAt)

	revoked := seedInvite(t, st, "i2", s.ID, owner.ID, domain.InviteInvestor, epoch.Add(time.Hour))
	require.NoError(t, st.Invites().DeactivateInvite(ctx, revoked.ID))
	ok, err := st.Invites().MarkInviteUsed(ctx, revoked.ID, "investor@example.com", epoch)
	require.NoError(t, err)
	require.False(t, ok, "revoked invites cannot be redeemed")
}

func TestHasIssuedMentorInvite(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	owner := seedUser(t, st, "owner", domain.RoleStartup)
	s := seedStartup(t, st, "s1", owner.ID)

	has, err := st.Invites().HasIssuedMentorInvite(ctx, s.ID, epoch)
	require.NoError(t, err)
	require.False(t, has)

	seedInvite(t, st, "investor", s.ID, owner.ID, domain.InviteInvestor, epoch.Add(time.Hour))
	has, err = st.Invites().HasIssuedMentorInvite(ctx, s.ID, epoch)
	require.NoError(t, err)
	require.False(t, has, "investor invites do not count")

	seedInvite(t, st, "mentor", s.ID, owner.ID, domain.InviteMentor, epoch.Add(time.Hour))
	has, err = st.Invites().HasIssuedMentorInvite(ctx, s.ID, epoch)
	require.NoError(t, err)
	require.True(t, has)

	has, err = st.Invites().HasIssuedMentorInvite(ctx, s.ID, epoch.Add(2*time.Hour))
	require.NoError(t, err)
	require.False(t, has, "expired invites do not count")
}

func TestDeleteStartupCascades(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	owner := seedUser(t, st, "owner", domain.RoleStartup)
	investor := seedUser(t, st, "investor", domain.RoleInvestor)
	s := seedStartup(t, st, "s1", owner.ID)
	inv := seedInvite(t, st, "i1", s.ID, owner.ID, domain.InviteInvestor, epoch.Add(time.Hour))
	require.NoError(t, st.Access().CreateInvestorAccess(ctx, domain.InvestorAccess{StartupID: s.ID, InvestorID: investor.ID, JoinedAt: epoch}))
	require.NoError(t, st.Milestones().CreateMilestone(ctx, domain.Milestone{
		ID:        "m1",
		StartupID: s.ID,
		Title:     "Launch",
		Status:    domain.MilestonePlanned,
		CreatedAt: epoch,
		UpdatedAt: epoch,
	}))

	n, err := st.Access().CountMembers(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, st.Startups().DeleteStartup(ctx, s.ID))

	_, err = st.Invites().GetInviteByID(ctx, inv.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Access().GetInvestorAccess(ctx, s.ID, investor.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Milestones().GetMilestone(ctx, s.ID, "m1")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Users survive their startups.
	_, err = st.Users().GetUserByID(ctx, investor.ID)
	require.NoError(t, err)
}

func TestDeleteExpiredUnusedInvites(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	owner := seedUser(t, st, "owner", domain.RoleStartup)
	s := seedStartup(t, st, "s1", owner.ID)

	seedInvite(t, st, "stale", s.ID, owner.ID, domain.InviteInvestor, epoch.Add(-48*time.Hour))
	used := seedInvite(t, st, "used", s.ID, owner.ID, domain.InviteInvestor, epoch.Add(-48*time.Hour))
	seedInvite(t, st, "fresh", s.ID, owner.ID, domain.InviteInvestor, epoch.Add(time.Hour))

	ok, err := st.Invites().MarkInviteUsed(ctx, used.ID, "investor@example.com", epoch.Add(-72*time.Hour))
	require.NoError(t, err)
	require.True(t, ok)

	n, err := st.Invites().DeleteExpiredUnusedInvites(ctx, epoch.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	left, err := st.Invites().ListInvites(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, left, 2)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	err := st.WithTx(ctx, func(tx store.Tx) error {
		seedUser(t, tx, "ghost", domain.RoleMentor)
		return store.ErrNotFound
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().GetUserByID(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDSN(t *testing.T) {
	require.Equal(t,
		"file:/tmp/a.db?_txlock=immediate&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		sqlite.DSN("/tmp/a.db"))
	require.Equal(t,
		"file:/tmp/a.db?mode=rwc&_txlock=immediate&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		sqlite.DSN("file:/tmp/a.db?mode=rwc"))
}
