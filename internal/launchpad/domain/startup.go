package domain

import "time"

// Stage is descriptive metadata about where a startup is in its lifecycle.
type Stage string

const (
	StageIdeation     Stage = "IDEATION"
	StagePrototype    Stage = "PROTOTYPE"
	StageValidation   Stage = "VALIDATION"
	StageIncubation   Stage = "INCUBATION"
	StageAcceleration Stage = "ACCELERATION"
	StageGrowth       Stage = "GROWTH"
	StageScale        Stage = "SCALE"
)

var stages = []Stage{
	StageIdeation, StagePrototype, StageValidation, StageIncubation,
	StageAcceleration, StageGrowth, StageScale,
}

func (s Stage) Valid() bool {
	for _, v := range stages {
		if s == v {
			return true
		}
	}
	return false
}

type Startup struct {
	ID        string
	OwnerID   string
	Name      string
	Slug      string
	Industry  string
	Stage     Stage
	Metadata  StartupMetadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartupMetadata holds contact and registration details.
type StartupMetadata struct {
	RegistrationNumber string
	ContactEmail       string
	ContactPhone       string
	Website            string
	Description        string
}
