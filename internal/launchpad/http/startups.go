package http

import (
	"net/http"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/access"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/service"
	"github.com/aussiebroadwan/launchpad/pkg/httpx"
	"github.com/aussiebroadwan/launchpad/pkg/launchpadsdk"
	"github.com/aussiebroadwan/launchpad/pkg/slogx"
)

type StartupsHandler struct {
	StartupService *service.StartupService
}

// HandleCreate godoc
//
//	@Summary		Create Startup
//	@Description	Create the caller's startup. Only STARTUP accounts may own one.
//	@Tags			Startups
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		launchpadsdk.StartupRequest	true	"name, industry, stage, metadata"
//	@Success		201		{object}	launchpadsdk.StartupResponse
//	@Failure		400		{object}	launchpadsdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		409		{object}	launchpadsdk.ErrorResponse	"already_exists"
//	@Router			/v1/startups [post].
func (h *StartupsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req launchpadsdk.StartupRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	st, err := h.StartupService.Create(r.Context(), principal(r), service.StartupInput{
		Name:     req.Name,
		Industry: req.Industry,
		Stage:    domain.Stage(req.Stage),
		Metadata: domain.StartupMetadata{
			RegistrationNumber: req.Metadata.RegistrationNumber,
			ContactEmail:       req.Metadata.ContactEmail,
			ContactPhone:       req.Metadata.ContactPhone,
			Website:            req.Metadata.Website,
			Description:        req.Metadata.Description,
		},
	})
	if err != nil {
		writeServiceError(w, r, err, "create startup")
		return
	}

	slogx.FromContext(r.Context()).Info("startup created", "startup_id", st.ID)
	httpx.WriteJSON(w, http.StatusCreated, toStartupResponse(st, access.LevelOwner))
}

// HandleList godoc
//
//	@Summary		List Startups
//	@Description	Startups the caller owns, mentors or has invested in, each tagged with the caller's access level.
//	@Tags			Startups
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	launchpadsdk.StartupListResponse
//	@Router			/v1/startups [get].
func (h *StartupsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	views, err := h.StartupService.ListForPrincipal(r.Context(), principal(r))
	if err != nil {
		writeServiceError(w, r, err, "list startups")
		return
	}

	resp := launchpadsdk.StartupListResponse{Startups: make([]launchpadsdk.StartupResponse, 0, len(views))}
	for _, v := range views {
		resp.Startups = append(resp.Startups, toStartupResponse(v.Startup, v.Access))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet godoc
//
//	@Summary		Get Startup
//	@Tags			Startups
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Startup ID"
//	@Success		200	{object}	launchpadsdk.StartupResponse
//	@Failure		403	{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id} [get].
func (h *StartupsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	v, err := h.StartupService.Get(r.Context(), id, principal(r))
	if err != nil {
		writeServiceError(w, r, err, "get startup")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toStartupResponse(v.Startup, v.Access))
}

// HandleUpdate godoc
//
//	@Summary		Update Startup
//	@Description	Owner only. Fields left out of the body are unchanged.
//	@Tags			Startups
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Startup ID"
//	@Param			request	body		launchpadsdk.StartupPatchRequest	true	"fields to change"
//	@Success		200		{object}	launchpadsdk.StartupResponse
//	@Failure		400		{object}	launchpadsdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id} [patch].
func (h *StartupsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req launchpadsdk.StartupPatchRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	patch := service.StartupPatch{
		Name:               req.Name,
		Industry:           req.Industry,
		RegistrationNumber: req.RegistrationNumber,
		ContactEmail:       req.ContactEmail,
		ContactPhone:       req.ContactPhone,
		Website:            req.Website,
		Description:        req.Description,
	}
	if req.Stage != nil {
		stage := domain.Stage(*req.Stage)
		patch.Stage = &stage
	}

	st, err := h.StartupService.Update(r.Context(), id, principal(r), patch)
	if err != nil {
		writeServiceError(w, r, err, "update startup")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toStartupResponse(st, access.LevelOwner))
}

// HandleDelete godoc
//
//	@Summary		Delete Startup
//	@Description	Owner only. Refused while a mentor or investor still has access.
//	@Tags			Startups
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Startup ID"
//	@Success		204
//	@Failure		403	{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Failure		409	{object}	launchpadsdk.ErrorResponse	"has_members"
//	@Router			/v1/startups/{id} [delete].
func (h *StartupsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.StartupService.Delete(r.Context(), id, principal(r)); err != nil {
		writeServiceError(w, r, err, "delete startup")
		return
	}

	slogx.FromContext(r.Context()).Info("startup deleted", "startup_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMembers godoc
//
//	@Summary		List Members
//	@Description	The startup's mentor and investors.
//	@Tags			Startups
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Startup ID"
//	@Success		200	{object}	launchpadsdk.MembersResponse
//	@Failure		403	{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/members [get].
func (h *StartupsHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.StartupService.Members(r.Context(), id, principal(r))
	if err != nil {
		writeServiceError(w, r, err, "list members")
		return
	}

	resp := launchpadsdk.MembersResponse{Members: make([]launchpadsdk.MemberResponse, 0, len(members))}
	for _, m := range members {
		resp.Members = append(resp.Members, toMemberResponse(m))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleRemoveMentor godoc
//
//	@Summary		Remove Mentor
//	@Tags			Startups
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Startup ID"
//	@Success		204
//	@Failure		403	{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/mentor [delete].
func (h *StartupsHandler) HandleRemoveMentor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.StartupService.RemoveMentor(r.Context(), id, principal(r)); err != nil {
		writeServiceError(w, r, err, "remove mentor")
		return
	}

	slogx.FromContext(r.Context()).Info("mentor removed", "startup_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemoveInvestor godoc
//
//	@Summary		Remove Investor
//	@Tags			Startups
//	@Security		BearerAuth
//	@Param			id		path	string	true	"Startup ID"
//	@Param			userID	path	string	true	"Investor user ID"
//	@Success		204
//	@Failure		403	{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/investors/{userID} [delete].
func (h *StartupsHandler) HandleRemoveInvestor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	investorID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.StartupService.RemoveInvestor(r.Context(), id, investorID, principal(r)); err != nil {
		writeServiceError(w, r, err, "remove investor")
		return
	}

	slogx.FromContext(r.Context()).Info("investor removed", "startup_id", id, "investor_id", investorID)
	w.WriteHeader(http.StatusNoContent)
}
