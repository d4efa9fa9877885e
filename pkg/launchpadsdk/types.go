package launchpadsdk

import "time"

// DateLayout is the wire format of calendar dates (tracker periods, due dates).
const DateLayout = "2006-01-02"

// ============================================================================
// Accounts
// ============================================================================

// RegisterRequest creates an account. Role is one of STARTUP, MENTOR or
// INVESTOR and can never change.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenRequest exchanges credentials for an access token.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ============================================================================
// Startups
// ============================================================================

type StartupMetadata struct {
	RegistrationNumber string `json:"registration_number,omitempty"`
	ContactEmail       string `json:"contact_email,omitempty"`
	ContactPhone       string `json:"contact_phone,omitempty"`
	Website            string `json:"website,omitempty"`
	Description        string `json:"description,omitempty"`
}

type StartupRequest struct {
	Name     string          `json:"name"`
	Industry string          `json:"industry,omitempty"`
	Stage    string          `json:"stage,omitempty"`
	Metadata StartupMetadata `json:"metadata"`
}

// StartupPatchRequest only changes the fields that are present.
type StartupPatchRequest struct {
	Name               *string `json:"name,omitempty"`
	Industry           *string `json:"industry,omitempty"`
	Stage              *string `json:"stage,omitempty"`
	RegistrationNumber *string `json:"registration_number,omitempty"`
	ContactEmail       *string `json:"contact_email,omitempty"`
	ContactPhone       *string `json:"contact_phone,omitempty"`
	Website            *string `json:"website,omitempty"`
	Description        *string `json:"description,omitempty"`
}

type StartupResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Industry  string          `json:"industry"`
	Stage     string          `json:"stage"`
	Metadata  StartupMetadata `json:"metadata"`
	Access    string          `json:"access,omitempty"` // caller's level: OWNER, MENTOR or INVESTOR
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type StartupListResponse struct {
	Startups []StartupResponse `json:"startups"`
}

type MemberResponse struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type MembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// ============================================================================
// Invites
// ============================================================================

type InviteRequest struct {
	Type  string `json:"type"` // MENTOR or INVESTOR
	Email string `json:"email,omitempty"`
}

type InviteResponse struct {
	ID        string     `json:"id"`
	StartupID string     `json:"startup_id"`
	Type      string     `json:"type"`
	Email     string     `json:"email,omitempty"`
	Status    string     `json:"status"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	UsedBy    string     `json:"used_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IssueInviteResponse carries the only copy of the redemption URL. The
// token is its last path segment; see TokenFromURL.
type IssueInviteResponse struct {
	Invite InviteResponse `json:"invite"`
	URL    string         `json:"url"`
}

type InviteListResponse struct {
	Invites []InviteResponse `json:"invites"`
}

type InviteStartup struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Stage    string `json:"stage"`
}

// InviteViewResponse is what a prospective redeemer may see.
type InviteViewResponse struct {
	InviteID  string        `json:"invite_id"`
	Type      string        `json:"type"`
	ExpiresAt time.Time     `json:"expires_at"`
	Startup   InviteStartup `json:"startup"`
}

type AcceptInviteResponse struct {
	StartupID string `json:"startup_id"`
}

// ============================================================================
// Startup data
// ============================================================================

// Payload is a versioned map of scalar values. Each field must be a
// string, number, bool or null.
type Payload struct {
	SchemaVersion int            `json:"schema_version"`
	Fields        map[string]any `json:"fields"`
}

type TrackerRequest struct {
	Period      string  `json:"period"`       // WEEKLY or MONTHLY
	PeriodStart string  `json:"period_start"` // DateLayout
	Summary     string  `json:"summary,omitempty"`
	Metrics     Payload `json:"metrics"`
}

type TrackerResponse struct {
	ID          string    `json:"id"`
	StartupID   string    `json:"startup_id"`
	Period      string    `json:"period"`
	PeriodStart string    `json:"period_start"`
	Summary     string    `json:"summary"`
	Metrics     Payload   `json:"metrics"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TrackerListResponse struct {
	Trackers []TrackerResponse `json:"trackers"`
}

type MilestoneRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"` // DateLayout
	Status      string `json:"status,omitempty"`
}

// MilestonePatchRequest only changes the fields that are present. An empty
// DueDate clears it.
type MilestonePatchRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type MilestoneResponse struct {
	ID          string     `json:"id"`
	StartupID   string     `json:"startup_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     string     `json:"due_date,omitempty"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type MilestoneListResponse struct {
	Milestones []MilestoneResponse `json:"milestones"`
}

type FeedbackRequest struct {
	Section string  `json:"section"`
	Rating  int     `json:"rating"`
	Comment string  `json:"comment,omitempty"`
	Payload Payload `json:"payload"`
}

type FeedbackResponse struct {
	ID        string    `json:"id"`
	StartupID string    `json:"startup_id"`
	MentorID  string    `json:"mentor_id"`
	Section   string    `json:"section"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Payload   Payload   `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

type FeedbackListResponse struct {
	Feedback []FeedbackResponse `json:"feedback"`
}

// ============================================================================
// Health
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
