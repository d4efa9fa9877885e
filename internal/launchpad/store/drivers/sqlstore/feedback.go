package sqlstore

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
)

type feedbackRepo struct{ c conn }

const feedbackColumns = `id, startup_id, mentor_id, section, rating, comment, payload, created_at`

func scanFeedback(s scanner) (domain.Feedback, error) {
	var (
		f       domain.Feedback
		payload string
		created int64
	)
	if err := s.Scan(&f.ID, &f.StartupID, &f.MentorID, &f.Section, &f.Rating, &f.Comment, &payload, &created); err != nil {
		return domain.Feedback{}, err
	}
	p, err := domain.DecodePayload(payload)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("feedback %s payload: %w", f.ID, err)
	}
	f.Payload = p
	f.CreatedAt = fromMillis(created)
	return f, nil
}

func (r feedbackRepo) CreateFeedback(ctx context.Context, f domain.Feedback) error {
	payload, err := domain.EncodePayload(f.Payload)
	if err != nil {
		return err
	}
	_, err = r.c.exec(ctx,
		`INSERT INTO feedback (`+feedbackColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.StartupID, f.MentorID, f.Section, f.Rating, f.Comment, payload, toMillis(f.CreatedAt),
	)
	return err
}

func (r feedbackRepo) ListFeedback(ctx context.Context, startupID, section string) ([]domain.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE startup_id = ?`
	args := []any{startupID}
	if section != "" {
		query += ` AND section = ?`
		args = append(args, section)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.c.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanFeedback)
}
