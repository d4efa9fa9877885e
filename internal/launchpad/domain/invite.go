package domain

import "time"

type InviteType string

const (
	InviteMentor   InviteType = "MENTOR"
	InviteInvestor InviteType = "INVESTOR"
)

func (t InviteType) Valid() bool {
	return t == InviteMentor || t == InviteInvestor
}

// Role is the user role allowed to redeem an invite of this type.
func (t InviteType) Role() Role {
	switch t {
	case InviteMentor:
		return RoleMentor
	case InviteInvestor:
		return RoleInvestor
	}
	return ""
}

type InviteStatus string

const (
	InviteIssued   InviteStatus = "ISSUED"
	InviteRedeemed InviteStatus = "REDEEMED"
	InviteRevoked  InviteStatus = "REVOKED"
	InviteExpired  InviteStatus = "EXPIRED"
)

type Invite struct {
	ID        string
	StartupID string
	CreatedBy string
	Type      InviteType
	TokenHash string
	Email     string // advisory, never checked against the redeemer
	ExpiresAt time.Time
	UsedAt    *time.Time
	UsedBy    string // redeemer's email once used
	IsActive  bool
	CreatedAt time.Time
}

// Status derives the lifecycle state. Redemption also clears IsActive, so
// UsedAt is checked first.
func (i Invite) Status(now time.Time) InviteStatus {
	switch {
	case i.UsedAt != nil:
		return InviteRedeemed
	case !i.IsActive:
		return InviteRevoked
	case now.After(i.ExpiresAt):
		return InviteExpired
	default:
		return InviteIssued
	}
}
