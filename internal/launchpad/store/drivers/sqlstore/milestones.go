package sqlstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
)

type milestonesRepo struct{ c conn }

const milestoneColumns = `id, startup_id, title, description, due_date, status, completed_at, created_at, updated_at`

func scanMilestone(s scanner) (domain.Milestone, error) {
	var (
		m                  domain.Milestone
		status             string
		due, completed     sql.NullInt64
		created, updatedAt int64
	)
	if err := s.Scan(&m.ID, &m.StartupID, &m.Title, &m.Description, &due, &status, &completed, &created, &updatedAt); err != nil {
		return domain.Milestone{}, err
	}
	m.Status = domain.MilestoneStatus(status)
	m.DueDate = fromNullMillis(due)
	m.CompletedAt = fromNullMillis(completed)
	m.CreatedAt = fromMillis(created)
	m.UpdatedAt = fromMillis(updatedAt)
	return m, nil
}

func (r milestonesRepo) CreateMilestone(ctx context.Context, m domain.Milestone) error {
	_, err := r.c.exec(ctx,
		`INSERT INTO milestones (`+milestoneColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.StartupID, m.Title, m.Description, toNullMillis(m.DueDate), string(m.Status),
		toNullMillis(m.CompletedAt), toMillis(m.CreatedAt), toMillis(m.UpdatedAt),
	)
	return err
}

func (r milestonesRepo) GetMilestone(ctx context.Context, startupID, id string) (domain.Milestone, error) {
	m, err := scanMilestone(r.c.queryRow(ctx,
		`SELECT `+milestoneColumns+` FROM milestones WHERE startup_id = ? AND id = ?`,
		startupID, id,
	))
	return m, r.c.mapErr(err)
}

func (r milestonesRepo) ListMilestones(ctx context.Context, startupID string) ([]domain.Milestone, error) {
	rows, err := r.c.query(ctx,
		`SELECT `+milestoneColumns+` FROM milestones WHERE startup_id = ? ORDER BY created_at, id`,
		startupID,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMilestone)
}

func (r milestonesRepo) UpdateMilestone(ctx context.Context, m domain.Milestone) error {
	return r.c.execOne(ctx, `
		UPDATE milestones SET title = ?, description = ?, due_date = ?, status = ?, completed_at = ?, updated_at = ?
		WHERE startup_id = ? AND id = ?`,
		m.Title, m.Description, toNullMillis(m.DueDate), string(m.Status), toNullMillis(m.CompletedAt),
		toMillis(m.UpdatedAt), m.StartupID, m.ID,
	)
}

func (r milestonesRepo) DeleteMilestone(ctx context.Context, startupID, id string) error {
	return r.c.execOne(ctx, `DELETE FROM milestones WHERE startup_id = ? AND id = ?`, startupID, id)
}
