package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
)

// DefaultInviteRetention is how long expired, never-used invites are kept
// after expiry so owners can still see them in the invite list.
const DefaultInviteRetention = 30 * 24 * time.Hour

// HousekeepingService periodically deletes stale invite links. Redeemed
// and revoked invites are history and are kept.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration
	Now       Clock

	started atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewHousekeepingService defaults interval to one hour and retention to
// DefaultInviteRetention when they are not positive.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultInviteRetention
	}
	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run()
	s.Logger.Info("housekeeping service started",
		"interval", s.Interval,
		"retention", s.Retention,
	)
}

// Stop blocks until any in-progress cleanup has finished. It is a no-op if
// the worker was never started.
func (s *HousekeepingService) Stop() {
	if !s.started.CompareAndSwap(true, false) {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes invites that expired unused more than Retention ago and
// returns how many were removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	cutoff := s.Now.now().Add(-s.Retention)

	n, err := s.Store.Invites().DeleteExpiredUnusedInvites(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete expired invites", "error", err)
		return 0
	}

	s.Logger.Info("housekeeping cleanup completed",
		"deleted_invites", n,
		"cutoff", cutoff,
	)
	return n
}
