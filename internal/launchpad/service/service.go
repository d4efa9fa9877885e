// Package service holds launchpad's business operations. Every operation
// takes the calling domain.Principal explicitly and returns the sentinel
// errors in errors.go.
package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/access"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
	"github.com/microcosm-cc/bluemonday"
)

// Clock returns the current time. Services default to time.Now in UTC.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// authorize loads the startup with its grants and runs the gate for op.
// Call it with a Tx whenever a write follows.
func authorize(ctx context.Context, st store.Store, startupID string, p domain.Principal, op access.Operation) (domain.AccessSnapshot, access.Level, error) {
	if startupID == "" {
		return domain.AccessSnapshot{}, access.LevelNone, invalid("startup id is required")
	}

	snap, err := st.Startups().Snapshot(ctx, startupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccessSnapshot{}, access.LevelNone, ErrNotFound
		}
		return domain.AccessSnapshot{}, access.LevelNone, fmt.Errorf("load startup: %w", err)
	}

	level := access.Evaluate(&snap, p.UserID)
	if access.Authorize(level, op) == access.Deny {
		return snap, level, ErrForbidden
	}
	return snap, level, nil
}

// notFoundAs converts store.ErrNotFound into target and wraps anything else.
func notFoundAs(err error, target error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return target
	}
	return fmt.Errorf("%s: %w", what, err)
}

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText strips all markup from user supplied free text.
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func normalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", invalid("malformed email %q", s)
	}
	return s, nil
}
