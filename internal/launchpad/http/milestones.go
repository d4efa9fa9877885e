package http

import (
	"net/http"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/service"
	"github.com/aussiebroadwan/launchpad/pkg/httpx"
	"github.com/aussiebroadwan/launchpad/pkg/launchpadsdk"
)

type MilestonesHandler struct {
	MilestoneService *service.MilestoneService
}

// HandleList godoc
//
//	@Summary		List Milestones
//	@Tags			Startup Data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Startup ID"
//	@Success		200	{object}	launchpadsdk.MilestoneListResponse
//	@Failure		403	{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/milestones [get].
func (h *MilestonesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ms, err := h.MilestoneService.List(r.Context(), id, principal(r))
	if err != nil {
		writeServiceError(w, r, err, "list milestones")
		return
	}

	resp := launchpadsdk.MilestoneListResponse{Milestones: make([]launchpadsdk.MilestoneResponse, 0, len(ms))}
	for _, m := range ms {
		resp.Milestones = append(resp.Milestones, toMilestoneResponse(m))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate godoc
//
//	@Summary		Create Milestone
//	@Tags			Startup Data
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Startup ID"
//	@Param			request	body		launchpadsdk.MilestoneRequest	true	"title, description, due_date, status"
//	@Success		201		{object}	launchpadsdk.MilestoneResponse
//	@Failure		400		{object}	launchpadsdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Router			/v1/startups/{id}/milestones [post].
func (h *MilestonesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req launchpadsdk.MilestoneRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	in := service.MilestoneInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.MilestoneStatus(req.Status),
	}
	if req.DueDate != "" {
		due, err := parseDate("due_date", req.DueDate)
		if err != nil {
			writeBadParam(w, err.Error())
			return
		}
		in.DueDate = &due
	}

	m, err := h.MilestoneService.Create(r.Context(), id, principal(r), in)
	if err != nil {
		writeServiceError(w, r, err, "create milestone")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toMilestoneResponse(m))
}

// HandleUpdate godoc
//
//	@Summary		Update Milestone
//	@Description	Fields left out of the body are unchanged. An empty due_date clears it.
//	@Description	Moving into DONE stamps completed_at; moving out clears it.
//	@Tags			Startup Data
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id			path		string								true	"Startup ID"
//	@Param			milestoneID	path		string								true	"Milestone ID"
//	@Param			request		body		launchpadsdk.MilestonePatchRequest	true	"fields to change"
//	@Success		200			{object}	launchpadsdk.MilestoneResponse
//	@Failure		400			{object}	launchpadsdk.ErrorResponse	"invalid_request"
//	@Failure		403			{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404			{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/milestones/{milestoneID} [patch].
func (h *MilestonesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathID(w, r, "milestoneID")
	if !ok {
		return
	}

	var req launchpadsdk.MilestonePatchRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	patch := service.MilestonePatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.MilestoneStatus(*req.Status)
		patch.Status = &status
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			patch.ClearDueDate = true
		} else {
			due, err := parseDate("due_date", *req.DueDate)
			if err != nil {
				writeBadParam(w, err.Error())
				return
			}
			patch.DueDate = &due
		}
	}

	m, err := h.MilestoneService.Update(r.Context(), id, milestoneID, principal(r), patch)
	if err != nil {
		writeServiceError(w, r, err, "update milestone")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMilestoneResponse(m))
}

// HandleDelete godoc
//
//	@Summary		Delete Milestone
//	@Tags			Startup Data
//	@Security		BearerAuth
//	@Param			id			path	string	true	"Startup ID"
//	@Param			milestoneID	path	string	true	"Milestone ID"
//	@Success		204
//	@Failure		403	{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/milestones/{milestoneID} [delete].
func (h *MilestonesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	milestoneID, ok := pathID(w, r, "milestoneID")
	if !ok {
		return
	}

	if err := h.MilestoneService.Delete(r.Context(), id, milestoneID, principal(r)); err != nil {
		writeServiceError(w, r, err, "delete milestone")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
