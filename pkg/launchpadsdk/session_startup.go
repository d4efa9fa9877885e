package launchpadsdk

import (
	"context"
	"net/http"
)

// CreateStartup registers the caller's startup. STARTUP users only.
func (s *Session) CreateStartup(ctx context.Context, req StartupRequest) (*StartupResponse, error) {
	return call[StartupResponse](ctx, s, http.MethodPost, "/v1/startups", req, http.StatusCreated)
}

// ListStartups returns every startup the caller owns, mentors or backs.
func (s *Session) ListStartups(ctx context.Context) (*StartupListResponse, error) {
	return call[StartupListResponse](ctx, s, http.MethodGet, "/v1/startups", nil, http.StatusOK)
}

func (s *Session) GetStartup(ctx context.Context, id string) (*StartupResponse, error) {
	return call[StartupResponse](ctx, s, http.MethodGet, startupPath(id), nil, http.StatusOK)
}

// UpdateStartup patches a startup. Owner only.
func (s *Session) UpdateStartup(ctx context.Context, id string, req StartupPatchRequest) (*StartupResponse, error) {
	return call[StartupResponse](ctx, s, http.MethodPatch, startupPath(id), req, http.StatusOK)
}

// DeleteStartup fails with has_members while mentors or investors remain.
func (s *Session) DeleteStartup(ctx context.Context, id string) error {
	return s.callNoContent(ctx, http.MethodDelete, startupPath(id), nil)
}

func (s *Session) ListMembers(ctx context.Context, id string) (*MembersResponse, error) {
	return call[MembersResponse](ctx, s, http.MethodGet, startupPath(id, "members"), nil, http.StatusOK)
}

func (s *Session) RemoveMentor(ctx context.Context, id string) error {
	return s.callNoContent(ctx, http.MethodDelete, startupPath(id, "mentor"), nil)
}

func (s *Session) RemoveInvestor(ctx context.Context, id, investorID string) error {
	return s.callNoContent(ctx, http.MethodDelete, startupPath(id, "investors", investorID), nil)
}
