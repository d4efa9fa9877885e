package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
)

type invitesRepo struct{ c conn }

const inviteColumns = `id, startup_id, created_by, invite_type, token_hash, email,
	expires_at, used_at, used_by, is_active, created_at`

func scanInvite(s scanner) (domain.Invite, error) {
	var (
		inv              domain.Invite
		typ              string
		expires, created int64
		usedAt           sql.NullInt64
		usedBy           sql.NullString
	)
	err := s.Scan(
		&inv.ID, &inv.StartupID, &inv.CreatedBy, &typ, &inv.TokenHash, &inv.Email,
		&expires, &usedAt, &usedBy, &inv.IsActive, &created,
	)
	if err != nil {
		return domain.Invite{}, err
	}
	inv.Type = domain.InviteType(typ)
	inv.ExpiresAt = fromMillis(expires)
	inv.UsedAt = fromNullMillis(usedAt)
	inv.UsedBy = mapNullString(usedBy)
	inv.CreatedAt = fromMillis(created)
	return inv, nil
}

func (r invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.c.exec(ctx,
		`INSERT INTO invite_links (`+inviteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, NULL, NULL, ?, ?)`,
		inv.ID, inv.StartupID, inv.CreatedBy, string(inv.Type), inv.TokenHash, inv.Email,
		toMillis(inv.ExpiresAt), inv.IsActive, toMillis(inv.CreatedAt),
	)
	return err
}

func (r invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	inv, err := scanInvite(r.c.queryRow(ctx, `SELECT `+inviteColumns+` FROM invite_links WHERE id = ?`, id))
	return inv, r.c.mapErr(err)
}

func (r invitesRepo) GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	inv, err := scanInvite(r.c.queryRow(ctx, `SELECT `+inviteColumns+` FROM invite_links WHERE token_hash = ?`, hash))
	return inv, r.c.mapErr(err)
}

func (r invitesRepo) LockInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	inv, err := scanInvite(r.c.queryRow(ctx,
		`SELECT `+inviteColumns+` FROM invite_links WHERE token_hash = ?`+r.c.d.ForUpdate(),
		hash,
	))
	return inv, r.c.mapErr(err)
}

func (r invitesRepo) ListInvites(ctx context.Context, startupID string) ([]domain.Invite, error) {
	rows, err := r.c.query(ctx,
		`SELECT `+inviteColumns+` FROM invite_links WHERE startup_id = ? ORDER BY created_at DESC, id DESC`,
		startupID,
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInvite)
}

func (r invitesRepo) HasIssuedMentorInvite(ctx context.Context, startupID string, now time.Time) (bool, error) {
	var n int
	err := r.c.queryRow(ctx, `
		SELECT COUNT(*) FROM invite_links
		WHERE startup_id = ? AND invite_type = ?
			AND used_at IS NULL AND is_active AND expires_at >= ?`,
		startupID, string(domain.InviteMentor), toMillis(now),
	).Scan(&n)
	return n > 0, err
}

func (r invitesRepo) MarkInviteUsed(ctx context.Context, id, usedBy string, usedAt time.Time) (bool, error) {
	res, err := r.c.exec(ctx, `
		UPDATE invite_links SET used_at = ?, used_by = ?, is_active = ?
		WHERE id = ? AND used_at IS NULL AND is_active`,
		toMillis(usedAt), usedBy, false, id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r invitesRepo) DeactivateInvite(ctx context.Context, id string) error {
	return r.c.execOne(ctx, `UPDATE invite_links SET is_active = ? WHERE id = ?`, false, id)
}

func (r invitesRepo) DeleteExpiredUnusedInvites(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.c.exec(ctx,
		`DELETE FROM invite_links WHERE used_at IS NULL AND expires_at < ?`,
		toMillis(cutoff),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
