package domain

import "time"

type MilestoneStatus string

const (
	MilestonePlanned    MilestoneStatus = "PLANNED"
	MilestoneInProgress MilestoneStatus = "IN_PROGRESS"
	MilestoneDone       MilestoneStatus = "DONE"
)

func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestonePlanned, MilestoneInProgress, MilestoneDone:
		return true
	}
	return false
}

type Milestone struct {
	ID          string
	StartupID   string
	Title       string
	Description string
	DueDate     *time.Time
	Status      MilestoneStatus
	CompletedAt *time.Time // set only while Status is DONE
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
