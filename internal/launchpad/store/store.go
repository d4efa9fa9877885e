package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it and expose sub-repositories. Any read that feeds
// an access decision followed by a write must run inside WithTx.
type Store interface {
	Users() Users
	Startups() Startups
	Access() Access
	Invites() Invites
	Trackers() Trackers
	Milestones() Milestones
	Feedback() Feedback

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing if it returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a user. ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

type Startups interface {
	// CreateStartup inserts a startup. ErrAlreadyExists when the owner
	// already has one.
	CreateStartup(ctx context.Context, s domain.Startup) error
	GetStartup(ctx context.Context, id string) (domain.Startup, error)
	UpdateStartup(ctx context.Context, s domain.Startup) error

	// DeleteStartup cascades to invites, access records and startup data.
	DeleteStartup(ctx context.Context, id string) error

	// LockStartup takes a row lock on the startup for the rest of the
	// transaction where the database supports it.
	LockStartup(ctx context.Context, id string) error

	// Snapshot reads the startup together with its mentor and investor grants.
	Snapshot(ctx context.Context, id string) (domain.AccessSnapshot, error)

	// ListStartupsForUser returns startups the user owns, mentors or backs,
	// newest first.
	ListStartupsForUser(ctx context.Context, userID string) ([]domain.Startup, error)
}

type Access interface {
	// CreateMentorAccess fails with ErrAlreadyExists if the startup has a mentor.
	CreateMentorAccess(ctx context.Context, a domain.MentorAccess) error
	GetMentorAccess(ctx context.Context, startupID string) (domain.MentorAccess, error)
	DeleteMentorAccess(ctx context.Context, startupID string) error

	// CreateInvestorAccess fails with ErrAlreadyExists for a duplicate pair.
	CreateInvestorAccess(ctx context.Context, a domain.InvestorAccess) error
	GetInvestorAccess(ctx context.Context, startupID, investorID string) (domain.InvestorAccess, error)
	DeleteInvestorAccess(ctx context.Context, startupID, investorID string) error

	CountMembers(ctx context.Context, startupID string) (int, error)

	// ListMembers returns the mentor (if any) followed by investors in join order.
	ListMembers(ctx context.Context, startupID string) ([]domain.Member, error)
}

type Invites interface {
	// CreateInvite fails with ErrAlreadyExists on a token hash collision.
	CreateInvite(ctx context.Context, inv domain.Invite) error
	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// LockInviteByTokenHash is GetInviteByTokenHash plus a row lock.
	LockInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	ListInvites(ctx context.Context, startupID string) ([]domain.Invite, error)

	// HasIssuedMentorInvite reports whether an active, unused MENTOR invite
	// that hasn't expired at now exists for the startup.
	HasIssuedMentorInvite(ctx context.Context, startupID string, now time.Time) (bool, error)

	// MarkInviteUsed is a compare-and-set: it only succeeds for an active,
	// unused invite and reports whether it did.
	MarkInviteUsed(ctx context.Context, id, usedBy string, usedAt time.Time) (bool, error)

	// DeactivateInvite sets is_active=false and never touches used_at.
	DeactivateInvite(ctx context.Context, id string) error

	// DeleteExpiredUnusedInvites removes never-used invites that expired
	// before cutoff.
	DeleteExpiredUnusedInvites(ctx context.Context, cutoff time.Time) (int64, error)
}

type Trackers interface {
	// CreateTracker fails with ErrAlreadyExists for a duplicate
	// (startup, period, period start).
	CreateTracker(ctx context.Context, t domain.TrackerEntry) error
	GetTracker(ctx context.Context, startupID, id string) (domain.TrackerEntry, error)
	ListTrackers(ctx context.Context, startupID string) ([]domain.TrackerEntry, error)
	UpdateTracker(ctx context.Context, t domain.TrackerEntry) error
	DeleteTracker(ctx context.Context, startupID, id string) error
}

type Milestones interface {
	CreateMilestone(ctx context.Context, m domain.Milestone) error
	GetMilestone(ctx context.Context, startupID, id string) (domain.Milestone, error)
	ListMilestones(ctx context.Context, startupID string) ([]domain.Milestone, error)
	UpdateMilestone(ctx context.Context, m domain.Milestone) error
	DeleteMilestone(ctx context.Context, startupID, id string) error
}

type Feedback interface {
	CreateFeedback(ctx context.Context, f domain.Feedback) error

	// ListFeedback returns newest first. An empty section returns all.
	ListFeedback(ctx context.Context, startupID, section string) ([]domain.Feedback, error)
}
