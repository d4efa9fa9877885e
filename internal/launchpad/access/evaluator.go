// Package access decides what a principal may do with a startup. Everything
// here is pure: callers load a domain.AccessSnapshot and pass it in.
package access

import "github.com/aussiebroadwan/launchpad/internal/launchpad/domain"

// Level is the capability class a user holds for one startup.
type Level string

const (
	LevelNone     Level = "NONE"
	LevelInvestor Level = "INVESTOR"
	LevelMentor   Level = "MENTOR"
	LevelOwner    Level = "OWNER"
)

// Evaluate resolves userID's level on the snapshot's startup. Precedence is
// OWNER, MENTOR, INVESTOR, NONE. A nil snapshot means the startup doesn't
// exist and yields NONE; telling 404 from 403 is the caller's job.
func Evaluate(snap *domain.AccessSnapshot, userID string) Level {
	if snap == nil || userID == "" {
		return LevelNone
	}
	if snap.Startup.OwnerID == userID {
		return LevelOwner
	}
	if snap.Mentor != nil && snap.Mentor.MentorID == userID {
		return LevelMentor
	}
	for _, inv := range snap.Investors {
		if inv.InvestorID == userID {
			return LevelInvestor
		}
	}
	return LevelNone
}

func HasAnyAccess(l Level) bool { return l != LevelNone && l != "" }

func CanWrite(l Level) bool { return l == LevelOwner }
