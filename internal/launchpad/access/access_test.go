package access_test

import (
	"testing"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/access"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/stretchr/testify/require"
)

func snapshot() *domain.AccessSnapshot {
	return &domain.AccessSnapshot{
		Startup: domain.Startup{ID: "s1", OwnerID: "owner"},
		Mentor:  &domain.MentorAccess{StartupID: "s1", MentorID: "mentor"},
		Investors: []domain.InvestorAccess{
			{StartupID: "s1", InvestorID: "inv1"},
			{StartupID: "s1", InvestorID: "inv2"},
		},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		snap *domain.AccessSnapshot
		user string
		want access.Level
	}{
		{"owner", snapshot(), "owner", access.LevelOwner},
		{"mentor", snapshot(), "mentor", access.LevelMentor},
		{"first investor", snapshot(), "inv1", access.LevelInvestor},
		{"second investor", snapshot(), "inv2", access.LevelInvestor},
		{"stranger", snapshot(), "someone", access.LevelNone},
		{"empty user", snapshot(), "", access.LevelNone},
		{"missing startup", nil, "owner", access.LevelNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, access.Evaluate(tt.snap, tt.user))
		})
	}
}

func TestEvaluate_OwnerWinsOverCorruptGrants(t *testing.T) {
	snap := snapshot()
	snap.Mentor.MentorID = "owner"
	snap.Investors = append(snap.Investors, domain.InvestorAccess{StartupID: "s1", InvestorID: "owner"})
	require.Equal(t, access.LevelOwner, access.Evaluate(snap, "owner"))
}

func TestEvaluate_MentorWinsOverInvestorGrant(t *testing.T) {
	snap := snapshot()
	snap.Investors = append(snap.Investors, domain.InvestorAccess{StartupID: "s1", InvestorID: "mentor"})
	require.Equal(t, access.LevelMentor, access.Evaluate(snap, "mentor"))

	// Once the mentor grant belongs to someone else, the investor row is
	// all that is left.
	snap.Mentor.MentorID = "owner"
	require.Equal(t, access.LevelInvestor, access.Evaluate(snap, "mentor"))
}

func TestEvaluate_NoMentor(t *testing.T) {
	snap := snapshot()
	snap.Mentor = nil
	require.Equal(t, access.LevelNone, access.Evaluate(snap, "mentor"))
}

func TestAuthorize(t *testing.T) {
	levels := []access.Level{access.LevelOwner, access.LevelMentor, access.LevelInvestor, access.LevelNone}
	want := map[access.Operation]map[access.Level]access.Decision{
		access.OpRead: {
			access.LevelOwner: access.Allow, access.LevelMentor: access.Allow,
			access.LevelInvestor: access.Allow, access.LevelNone: access.Deny,
		},
		access.OpWrite: {
			access.LevelOwner: access.Allow, access.LevelMentor: access.Deny,
			access.LevelInvestor: access.Deny, access.LevelNone: access.Deny,
		},
		access.OpMentorFeedback: {
			access.LevelOwner: access.Deny, access.LevelMentor: access.Allow,
			access.LevelInvestor: access.Deny, access.LevelNone: access.Deny,
		},
	}

	for op, byLevel := range want {
		for _, l := range levels {
			require.Equal(t, byLevel[l], access.Authorize(l, op), "op=%s level=%s", op, l)
		}
	}

	require.Equal(t, access.Deny, access.Authorize(access.LevelOwner, access.Operation("delete_everything")))
}

func TestPredicates(t *testing.T) {
	require.True(t, access.HasAnyAccess(access.LevelInvestor))
	require.False(t, access.HasAnyAccess(access.LevelNone))
	require.True(t, access.CanWrite(access.LevelOwner))
	require.False(t, access.CanWrite(access.LevelMentor))
}
