package sqlstore

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
)

type trackersRepo struct{ c conn }

const trackerColumns = `id, startup_id, period, period_start, summary, metrics, created_by, created_at, updated_at`

func scanTracker(s scanner) (domain.TrackerEntry, error) {
	var (
		t                         domain.TrackerEntry
		period, metrics           string
		start, created, updatedAt int64
	)
	if err := s.Scan(&t.ID, &t.StartupID, &period, &start, &t.Summary, &metrics, &t.CreatedBy, &created, &updatedAt); err != nil {
		return domain.TrackerEntry{}, err
	}
	p, err := domain.DecodePayload(metrics)
	if err != nil {
		return domain.TrackerEntry{}, fmt.Errorf("tracker %s metrics: %w", t.ID, err)
	}
	t.Period = domain.Period(period)
	t.PeriodStart = fromMillis(start)
	t.Metrics = p
	t.CreatedAt = fromMillis(created)
	t.UpdatedAt = fromMillis(updatedAt)
	return t, nil
}

func (r trackersRepo) CreateTracker(ctx context.Context, t domain.TrackerEntry) error {
	metrics, err := domain.EncodePayload(t.Metrics)
	if err != nil {
		return err
	}
	_, err = r.c.exec(ctx,
		`INSERT INTO tracker_entries (`+trackerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.StartupID, string(t.Period), toMillis(t.PeriodStart), t.Summary, metrics,
		t.CreatedBy, toMillis(t.CreatedAt), toMillis(t.UpdatedAt),
	)
	return err
}

func (r trackersRepo) GetTracker(ctx context.Context, startupID, id string) (domain.TrackerEntry, error) {
	t, err := scanTracker(r.c.queryRow(ctx,
		`SELECT `+trackerColumns+` FROM tracker_entries WHERE startup_id = ? AND id = ?`,
		startupID, id,
	))
	return t, r.c.mapErr(err)
}

func (r trackersRepo) ListTrackers(ctx context.Context, startupID string) ([]domain.TrackerEntry, error) {
	rows, err := r.c.query(ctx,
		`SELECT `+trackerColumns+` FROM tracker_entries WHERE startup_id = ? ORDER BY period_start DESC, id DESC`,
		startupID,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTracker)
}

func (r trackersRepo) UpdateTracker(ctx context.Context, t domain.TrackerEntry) error {
	metrics, err := domain.EncodePayload(t.Metrics)
	if err != nil {
		return err
	}
	return r.c.execOne(ctx, `
		UPDATE tracker_entries SET period = ?, period_start = ?, summary = ?, metrics = ?, updated_at = ?
		WHERE startup_id = ? AND id = ?`,
		string(t.Period), toMillis(t.PeriodStart), t.Summary, metrics, toMillis(t.UpdatedAt),
		t.StartupID, t.ID,
	)
}

func (r trackersRepo) DeleteTracker(ctx context.Context, startupID, id string) error {
	return r.c.execOne(ctx, `DELETE FROM tracker_entries WHERE startup_id = ? AND id = ?`, startupID, id)
}
