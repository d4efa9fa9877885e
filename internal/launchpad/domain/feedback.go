package domain

import "time"

// Feedback is a mentor's rating and comment on one section of a startup.
type Feedback struct {
	ID        string
	StartupID string
	MentorID  string
	Section   string
	Rating    int
	Comment   string
	Payload   Payload
	CreatedAt time.Time
}
