package domain

// Role is fixed at registration and decides which invites a user may redeem.
type Role string

const (
	RoleStartup  Role = "STARTUP"
	RoleMentor   Role = "MENTOR"
	RoleInvestor Role = "INVESTOR"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStartup, RoleMentor, RoleInvestor:
		return true
	}
	return false
}

// Principal is the authenticated caller of a service operation.
type Principal struct {
	UserID string
	Role   Role
}
