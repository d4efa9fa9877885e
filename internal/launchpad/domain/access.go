package domain

import "time"

// MentorAccess is the single mentor grant a startup may hold.
type MentorAccess struct {
	StartupID string
	MentorID  string
	JoinedAt  time.Time
}

type InvestorAccess struct {
	StartupID  string
	InvestorID string
	JoinedAt   time.Time
}

// AccessSnapshot is a startup read together with every access grant on it.
type AccessSnapshot struct {
	Startup   Startup
	Mentor    *MentorAccess
	Investors []InvestorAccess
}

// Member is an access grant joined with the user it belongs to.
type Member struct {
	UserID   string
	Email    string
	Name     string
	Role     Role
	JoinedAt time.Time
}
