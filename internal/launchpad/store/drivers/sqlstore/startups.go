package sqlstore

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
)

type startupsRepo struct{ c conn }

const startupColumns = `id, owner_id, name, slug, industry, stage,
	registration_number, contact_email, contact_phone, website, description,
	created_at, updated_at`

func scanStartup(s scanner) (domain.Startup, error) {
	var (
		st                 domain.Startup
		stage              string
		created, updatedAt int64
	)
	err := s.Scan(
		&st.ID, &st.OwnerID, &st.Name, &st.Slug, &st.Industry, &stage,
		&st.Metadata.RegistrationNumber, &st.Metadata.ContactEmail, &st.Metadata.ContactPhone,
		&st.Metadata.Website, &st.Metadata.Description,
		&created, &updatedAt,
	)
	if err != nil {
		return domain.Startup{}, err
	}
	st.Stage = domain.Stage(stage)
	st.CreatedAt = fromMillis(created)
	st.UpdatedAt = fromMillis(updatedAt)
	return st, nil
}

func (r startupsRepo) CreateStartup(ctx context.Context, s domain.Startup) error {
	_, err := r.c.exec(ctx,
		`INSERT INTO startups (`+startupColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.OwnerID, s.Name, s.Slug, s.Industry, string(s.Stage),
		s.Metadata.RegistrationNumber, s.Metadata.ContactEmail, s.Metadata.ContactPhone,
		s.Metadata.Website, s.Metadata.Description,
		toMillis(s.CreatedAt), toMillis(s.UpdatedAt),
	)
	return err
}

func (r startupsRepo) GetStartup(ctx context.Context, id string) (domain.Startup, error) {
	s, err := scanStartup(r.c.queryRow(ctx, `SELECT `+startupColumns+` FROM startups WHERE id = ?`, id))
	return s, r.c.mapErr(err)
}

func (r startupsRepo) UpdateStartup(ctx context.Context, s domain.Startup) error {
	return r.c.execOne(ctx, `
		UPDATE startups SET
			name = ?, slug = ?, industry = ?, stage = ?,
			registration_number = ?, contact_email = ?, contact_phone = ?, website = ?, description = ?,
			updated_at = ?
		WHERE id = ?`,
		s.Name, s.Slug, s.Industry, string(s.Stage),
		s.Metadata.RegistrationNumber, s.Metadata.ContactEmail, s.Metadata.ContactPhone,
		s.Metadata.Website, s.Metadata.Description,
		toMillis(s.UpdatedAt), s.ID,
	)
}

func (r startupsRepo) DeleteStartup(ctx context.Context, id string) error {
	return r.c.execOne(ctx, `DELETE FROM startups WHERE id = ?`, id)
}

func (r startupsRepo) LockStartup(ctx context.Context, id string) error {
	var got string
	err := r.c.queryRow(ctx, `SELECT id FROM startups WHERE id = ?`+r.c.d.ForUpdate(), id).Scan(&got)
	return r.c.mapErr(err)
}

func (r startupsRepo) Snapshot(ctx context.Context, id string) (domain.AccessSnapshot, error) {
	st, err := r.GetStartup(ctx, id)
	if err != nil {
		return domain.AccessSnapshot{}, err
	}
	snap := domain.AccessSnapshot{Startup: st}

	mentor, err := accessRepo(r).GetMentorAccess(ctx, id)
	switch {
	case err == nil:
		snap.Mentor = &mentor
	case !errors.Is(err, store.ErrNotFound):
		return domain.AccessSnapshot{}, err
	}

	rows, err := r.c.query(ctx,
		`SELECT startup_id, investor_id, joined_at FROM startup_investor_access WHERE startup_id = ? ORDER BY joined_at, investor_id`,
		id,
	)
	if err != nil {
		return domain.AccessSnapshot{}, err
	}
	snap.Investors, err = collect(rows, scanInvestorAccess)
	if err != nil {
		return domain.AccessSnapshot{}, err
	}
	return snap, nil
}

func (r startupsRepo) ListStartupsForUser(ctx context.Context, userID string) ([]domain.Startup, error) {
	rows, err := r.c.query(ctx, `
		SELECT `+startupColumns+` FROM startups
		WHERE owner_id = ?
			OR id IN (SELECT startup_id FROM startup_mentor_access WHERE mentor_id = ?)
			OR id IN (SELECT startup_id FROM startup_investor_access WHERE investor_id = ?)
		ORDER BY created_at DESC, id DESC`,
		userID, userID, userID,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanStartup)
}
