package http

import (
	"net/http"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/service"
	"github.com/aussiebroadwan/launchpad/pkg/httpx"
	"github.com/aussiebroadwan/launchpad/pkg/launchpadsdk"
)

type TrackersHandler struct {
	TrackerService *service.TrackerService
}

// decodeTracker reads a TrackerRequest body into service input, writing a
// 400 itself when the body or a field can't be parsed.
func decodeTracker(w http.ResponseWriter, r *http.Request) (service.TrackerInput, bool) {
	var req launchpadsdk.TrackerRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return service.TrackerInput{}, false
	}

	start, err := parseDate("period_start", req.PeriodStart)
	if err != nil {
		writeBadParam(w, err.Error())
		return service.TrackerInput{}, false
	}
	metrics, err := payloadFromSDK(req.Metrics)
	if err != nil {
		writeBadParam(w, "metrics: "+err.Error())
		return service.TrackerInput{}, false
	}

	return service.TrackerInput{
		Period:      domain.Period(req.Period),
		PeriodStart: start,
		Summary:     req.Summary,
		Metrics:     metrics,
	}, true
}

// HandleList godoc
//
//	@Summary		List Tracker Entries
//	@Description	Weekly and monthly progress reports, latest period first.
//	@Tags			Startup Data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Startup ID"
//	@Success		200	{object}	launchpadsdk.TrackerListResponse
//	@Failure		403	{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/trackers [get].
func (h *TrackersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.TrackerService.List(r.Context(), id, principal(r))
	if err != nil {
		writeServiceError(w, r, err, "list trackers")
		return
	}

	resp := launchpadsdk.TrackerListResponse{Trackers: make([]launchpadsdk.TrackerResponse, 0, len(entries))}
	for _, t := range entries {
		resp.Trackers = append(resp.Trackers, toTrackerResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate godoc
//
//	@Summary		Create Tracker Entry
//	@Tags			Startup Data
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Startup ID"
//	@Param			request	body		launchpadsdk.TrackerRequest	true	"period, period_start, summary, metrics"
//	@Success		201		{object}	launchpadsdk.TrackerResponse
//	@Failure		400		{object}	launchpadsdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		409		{object}	launchpadsdk.ErrorResponse	"already_exists"
//	@Router			/v1/startups/{id}/trackers [post].
func (h *TrackersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	in, ok := decodeTracker(w, r)
	if !ok {
		return
	}

	t, err := h.TrackerService.Create(r.Context(), id, principal(r), in)
	if err != nil {
		writeServiceError(w, r, err, "create tracker")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTrackerResponse(t))
}

// HandleUpdate godoc
//
//	@Summary		Replace Tracker Entry
//	@Tags			Startup Data
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id			path		string						true	"Startup ID"
//	@Param			trackerID	path		string						true	"Tracker entry ID"
//	@Param			request		body		launchpadsdk.TrackerRequest	true	"period, period_start, summary, metrics"
//	@Success		200			{object}	launchpadsdk.TrackerResponse
//	@Failure		400			{object}	launchpadsdk.ErrorResponse	"invalid_request"
//	@Failure		403			{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404			{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/trackers/{trackerID} [put].
func (h *TrackersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	trackerID, ok := pathID(w, r, "trackerID")
	if !ok {
		return
	}
	in, ok := decodeTracker(w, r)
	if !ok {
		return
	}

	t, err := h.TrackerService.Update(r.Context(), id, trackerID, principal(r), in)
	if err != nil {
		writeServiceError(w, r, err, "update tracker")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTrackerResponse(t))
}

// HandleDelete godoc
//
//	@Summary		Delete Tracker Entry
//	@Tags			Startup Data
//	@Security		BearerAuth
//	@Param			id			path	string	true	"Startup ID"
//	@Param			trackerID	path	string	true	"Tracker entry ID"
//	@Success		204
//	@Failure		403	{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/trackers/{trackerID} [delete].
func (h *TrackersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	trackerID, ok := pathID(w, r, "trackerID")
	if !ok {
		return
	}

	if err := h.TrackerService.Delete(r.Context(), id, trackerID, principal(r)); err != nil {
		writeServiceError(w, r, err, "delete tracker")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
