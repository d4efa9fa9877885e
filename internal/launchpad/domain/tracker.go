package domain

import "time"

type Period string

const (
	PeriodWeekly  Period = "WEEKLY"
	PeriodMonthly Period = "MONTHLY"
)

func (p Period) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly
}

// TrackerEntry is one weekly or monthly progress report.
type TrackerEntry struct {
	ID          string
	StartupID   string
	Period      Period
	PeriodStart time.Time
	Summary     string
	Metrics     Payload
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
