package sqlstore

import (
	"context"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
)

type usersRepo struct{ c conn }

const userColumns = `id, email, name, password_hash, role, created_at, updated_at`

func scanUser(s scanner) (domain.User, error) {
	var (
		u                  domain.User
		role               string
		created, updatedAt int64
	)
	if err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &created, &updatedAt); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

func (r usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.c.exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, string(u.Role), toMillis(u.CreatedAt), toMillis(u.UpdatedAt),
	)
	return err
}

func (r usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.c.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	return u, r.c.mapErr(err)
}

func (r usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.c.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	return u, r.c.mapErr(err)
}
