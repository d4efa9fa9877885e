package launchpadsdk

import (
	"context"
	"net/http"
	"net/url"
)

// IssueInvite creates an invite link for a startup. Owner only.
func (s *Session) IssueInvite(ctx context.Context, startupID string, req InviteRequest) (*IssueInviteResponse, error) {
	return call[IssueInviteResponse](ctx, s, http.MethodPost, startupPath(startupID, "invites"), req, http.StatusCreated)
}

// ListInvites returns every invite of a startup, newest first. Owner only.
func (s *Session) ListInvites(ctx context.Context, startupID string) (*InviteListResponse, error) {
	return call[InviteListResponse](ctx, s, http.MethodGet, startupPath(startupID, "invites"), nil, http.StatusOK)
}

// RevokeInvite deactivates an invite. Revoking twice is not an error.
func (s *Session) RevokeInvite(ctx context.Context, inviteID string) error {
	return s.callNoContent(ctx, http.MethodPost, "/v1/invites/"+url.PathEscape(inviteID)+"/revoke", nil)
}

// ValidateInvite checks whether the caller could accept an invite token.
func (s *Session) ValidateInvite(ctx context.Context, token string) (*InviteViewResponse, error) {
	return call[InviteViewResponse](ctx, s, http.MethodGet, "/v1/invites/"+url.PathEscape(token), nil, http.StatusOK)
}

// AcceptInvite redeems an invite token for the caller.
func (s *Session) AcceptInvite(ctx context.Context, token string) (*AcceptInviteResponse, error) {
	return call[AcceptInviteResponse](ctx, s, http.MethodPost, "/v1/invites/"+url.PathEscape(token)+"/accept", nil, http.StatusOK)
}
