package sqlstore

import (
	"context"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
)

type accessRepo struct{ c conn }

func scanInvestorAccess(s scanner) (domain.InvestorAccess, error) {
	var (
		a      domain.InvestorAccess
		joined int64
	)
	if err := s.Scan(&a.StartupID, &a.InvestorID, &joined); err != nil {
		return domain.InvestorAccess{}, err
	}
	a.JoinedAt = fromMillis(joined)
	return a, nil
}

func (r accessRepo) CreateMentorAccess(ctx context.Context, a domain.MentorAccess) error {
	_, err := r.c.exec(ctx,
		`INSERT INTO startup_mentor_access (startup_id, mentor_id, joined_at) VALUES (?, ?, ?)`,
		a.StartupID, a.MentorID, toMillis(a.JoinedAt),
	)
	return err
}

func (r accessRepo) GetMentorAccess(ctx context.Context, startupID string) (domain.MentorAccess, error) {
	var (
		a      domain.MentorAccess
		joined int64
	)
	err := r.c.queryRow(ctx,
		`SELECT startup_id, mentor_id, joined_at FROM startup_mentor_access WHERE startup_id = ?`,
		startupID,
	).Scan(&a.StartupID, &a.MentorID, &joined)
	if err != nil {
		return domain.MentorAccess{}, r.c.mapErr(err)
	}
	a.JoinedAt = fromMillis(joined)
	return a, nil
}

func (r accessRepo) DeleteMentorAccess(ctx context.Context, startupID string) error {
	return r.c.execOne(ctx, `DELETE FROM startup_mentor_access WHERE startup_id = ?`, startupID)
}

func (r accessRepo) CreateInvestorAccess(ctx context.Context, a domain.InvestorAccess) error {
	_, err := r.c.exec(ctx,
		`INSERT INTO startup_investor_access (startup_id, investor_id, joined_at) VALUES (?, ?, ?)`,
		a.StartupID, a.InvestorID, toMillis(a.JoinedAt),
	)
	return err
}

func (r accessRepo) GetInvestorAccess(ctx context.Context, startupID, investorID string) (domain.InvestorAccess, error) {
	a, err := scanInvestorAccess(r.c.queryRow(ctx,
		`SELECT startup_id, investor_id, joined_at FROM startup_investor_access WHERE startup_id = ? AND investor_id = ?`,
		startupID, investorID,
	))
	return a, r.c.mapErr(err)
}

func (r accessRepo) DeleteInvestorAccess(ctx context.Context, startupID, investorID string) error {
	return r.c.execOne(ctx,
		`DELETE FROM startup_investor_access WHERE startup_id = ? AND investor_id = ?`,
		startupID, investorID,
	)
}

func (r accessRepo) CountMembers(ctx context.Context, startupID string) (int, error) {
	var n int
	err := r.c.queryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM startup_mentor_access WHERE startup_id = ?) +
			(SELECT COUNT(*) FROM startup_investor_access WHERE startup_id = ?)`,
		startupID, startupID,
	).Scan(&n)
	return n, err
}

func scanMember(s scanner) (domain.Member, error) {
	var (
		m      domain.Member
		role   string
		joined int64
	)
	if err := s.Scan(&m.UserID, &m.Email, &m.Name, &role, &joined); err != nil {
		return domain.Member{}, err
	}
	m.Role = domain.Role(role)
	m.JoinedAt = fromMillis(joined)
	return m, nil
}

func (r accessRepo) ListMembers(ctx context.Context, startupID string) ([]domain.Member, error) {
	rows, err := r.c.query(ctx, `
		SELECT u.id, u.email, u.name, u.role, m.joined_at
		FROM startup_mentor_access m JOIN users u ON u.id = m.mentor_id
		WHERE m.startup_id = ?`,
		startupID,
	)
	if err != nil {
		return nil, err
	}
	members, err := collect(rows, scanMember)
	if err != nil {
		return nil, err
	}

	rows, err = r.c.query(ctx, `
		SELECT u.id, u.email, u.name, u.role, i.joined_at
		FROM startup_investor_access i JOIN users u ON u.id = i.investor_id
		WHERE i.startup_id = ?
		ORDER BY i.joined_at, u.id`,
		startupID,
	)
	if err != nil {
		return nil, err
	}
	investors, err := collect(rows, scanMember)
	if err != nil {
		return nil, err
	}
	return append(members, investors...), nil
}
