package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.world(t)

	stale, err := f.invites.Issue(ctx, w.startup.ID, w.owner, domain.InviteInvestor, "")
	require.NoError(t, err)

	f.clock.Advance(DefaultInviteTTL + 10*24*time.Hour)
	recent, err := f.invites.Issue(ctx, w.startup.ID, w.owner, domain.InviteInvestor, "")
	require.NoError(t, err)

	hk := NewHousekeepingService(f.store, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour, 0)
	hk.Now = f.clock.Now
	require.Equal(t, DefaultInviteRetention, hk.Retention)

	// The stale invite expired 10 days ago, inside the retention window.
	require.Equal(t, int64(0), hk.Cleanup(ctx))

	f.clock.Advance(21 * 24 * time.Hour)
	require.Equal(t, int64(1), hk.Cleanup(ctx))

	_, err = f.store.Invites().GetInviteByID(ctx, stale.Invite.ID)
	require.Error(t, err)

	// Redeemed invites and the recent one survive.
	remaining, err := f.store.Invites().ListInvites(ctx, w.startup.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 3)
	ids := map[string]bool{}
	for _, inv := range remaining {
		ids[inv.ID] = true
	}
	require.True(t, ids[recent.Invite.ID])
}

func TestHousekeepingStartStop(t *testing.T) {
	st := newTestStore(t)
	hk := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), 10*time.Millisecond, time.Hour)

	hk.Start()
	time.Sleep(30 * time.Millisecond)
	hk.Stop()
}
