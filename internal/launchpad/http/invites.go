package http

import (
	"net/http"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/service"
	"github.com/aussiebroadwan/launchpad/pkg/httpx"
	"github.com/aussiebroadwan/launchpad/pkg/launchpadsdk"
	"github.com/aussiebroadwan/launchpad/pkg/slogx"
)

// maxTokenLength bounds the token path segment; real tokens are far shorter.
const maxTokenLength = 128

type InvitesHandler struct {
	InviteService *service.InviteService
}

// pathToken reads the raw invite token. It is never logged.
func pathToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := r.PathValue("token")
	if token == "" || len(token) > maxTokenLength {
		httpx.WriteError(w, http.StatusNotFound, launchpadsdk.ErrorCodeNotFound, "not found")
		return "", false
	}
	return token, true
}

// HandleIssue godoc
//
//	@Summary		Issue Invite
//	@Description	Owner only. Returns the single-use redemption URL; the token in it is never shown again.
//	@Description	A startup can have one mentor and at most one outstanding mentor invite.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Startup ID"
//	@Param			request	body		launchpadsdk.InviteRequest	true	"type, optional email"
//	@Success		201		{object}	launchpadsdk.IssueInviteResponse
//	@Failure		400		{object}	launchpadsdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Failure		409		{object}	launchpadsdk.ErrorResponse	"already_assigned, duplicate_active_invite"
//	@Router			/v1/startups/{id}/invites [post].
func (h *InvitesHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req launchpadsdk.InviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	issued, err := h.InviteService.Issue(r.Context(), id, principal(r), domain.InviteType(req.Type), req.Email)
	if err != nil {
		writeServiceError(w, r, err, "issue invite")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, launchpadsdk.IssueInviteResponse{
		Invite: toInviteResponse(issued.Invite, domain.InviteIssued),
		URL:    issued.URL,
	})
}

// HandleList godoc
//
//	@Summary		List Invites
//	@Description	Owner only. Every invite of the startup with its derived status.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Startup ID"
//	@Success		200	{object}	launchpadsdk.InviteListResponse
//	@Failure		403	{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/invites [get].
func (h *InvitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	listings, err := h.InviteService.List(r.Context(), id, principal(r))
	if err != nil {
		writeServiceError(w, r, err, "list invites")
		return
	}

	resp := launchpadsdk.InviteListResponse{Invites: make([]launchpadsdk.InviteResponse, 0, len(listings))}
	for _, l := range listings {
		resp.Invites = append(resp.Invites, toInviteResponse(l.Invite, l.Status))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleRevoke godoc
//
//	@Summary		Revoke Invite
//	@Description	Owner only. Revoking an invite that is already revoked or used is a no-op.
//	@Tags			Invitations
//	@Security		BearerAuth
//	@Param			inviteID	path	string	true	"Invite ID"
//	@Success		204
//	@Failure		403	{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/invites/{inviteID}/revoke [post].
func (h *InvitesHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "inviteID")
	if !ok {
		return
	}

	if err := h.InviteService.Revoke(r.Context(), id, principal(r)); err != nil {
		writeServiceError(w, r, err, "revoke invite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleValidate godoc
//
//	@Summary		Validate Invite
//	@Description	Check that the caller could redeem the invite and show which startup it grants access to.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			token	path		string	true	"Invite token"
//	@Success		200		{object}	launchpadsdk.InviteViewResponse
//	@Failure		403		{object}	launchpadsdk.ErrorResponse	"role_mismatch"
//	@Failure		404		{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Failure		409		{object}	launchpadsdk.ErrorResponse	"already_used"
//	@Failure		410		{object}	launchpadsdk.ErrorResponse	"expired, revoked"
//	@Router			/v1/invites/{token} [get].
func (h *InvitesHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	token, ok := pathToken(w, r)
	if !ok {
		return
	}

	view, err := h.InviteService.Validate(r.Context(), token, principal(r))
	if err != nil {
		writeServiceError(w, r, err, "validate invite")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInviteView(view))
}

// HandleAccept godoc
//
//	@Summary		Accept Invite
//	@Description	Redeem the invite, granting the caller read-only access to the startup. Single use.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Param			token	path		string	true	"Invite token"
//	@Success		200		{object}	launchpadsdk.AcceptInviteResponse
//	@Failure		403		{object}	launchpadsdk.ErrorResponse	"role_mismatch"
//	@Failure		404		{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Failure		409		{object}	launchpadsdk.ErrorResponse	"already_used, already_assigned, already_member"
//	@Failure		410		{object}	launchpadsdk.ErrorResponse	"expired, revoked"
//	@Router			/v1/invites/{token}/accept [post].
func (h *InvitesHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	token, ok := pathToken(w, r)
	if !ok {
		return
	}

	startupID, err := h.InviteService.Redeem(r.Context(), token, principal(r))
	if err != nil {
		writeServiceError(w, r, err, "accept invite")
		return
	}

	slogx.FromContext(r.Context()).Info("invite accepted", "startup_id", startupID)
	httpx.WriteJSON(w, http.StatusOK, launchpadsdk.AcceptInviteResponse{StartupID: startupID})
}
