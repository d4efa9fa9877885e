package http

import (
	"net/http"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/service"
	"github.com/aussiebroadwan/launchpad/pkg/httpx"
	"github.com/aussiebroadwan/launchpad/pkg/launchpadsdk"
)

type FeedbackHandler struct {
	FeedbackService *service.FeedbackService
}

// HandleList godoc
//
//	@Summary		List Feedback
//	@Tags			Startup Data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string	true	"Startup ID"
//	@Param			section	query		string	false	"Only feedback for this section"
//	@Success		200		{object}	launchpadsdk.FeedbackListResponse
//	@Failure		400		{object}	launchpadsdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/feedback [get].
func (h *FeedbackHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.FeedbackService.List(r.Context(), id, principal(r), r.URL.Query().Get("section"))
	if err != nil {
		writeServiceError(w, r, err, "list feedback")
		return
	}

	resp := launchpadsdk.FeedbackListResponse{Feedback: make([]launchpadsdk.FeedbackResponse, 0, len(items))}
	for _, f := range items {
		resp.Feedback = append(resp.Feedback, toFeedbackResponse(f))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleSubmit godoc
//
//	@Summary		Submit Feedback
//	@Description	Only the startup's current mentor may post feedback.
//	@Tags			Startup Data
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"Startup ID"
//	@Param			request	body		launchpadsdk.FeedbackRequest	true	"section, rating, comment, payload"
//	@Success		201		{object}	launchpadsdk.FeedbackResponse
//	@Failure		400		{object}	launchpadsdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	launchpadsdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/startups/{id}/feedback [post].
func (h *FeedbackHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req launchpadsdk.FeedbackRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}
	payload, err := payloadFromSDK(req.Payload)
	if err != nil {
		writeBadParam(w, "payload: "+err.Error())
		return
	}

	f, err := h.FeedbackService.Submit(r.Context(), id, principal(r), service.FeedbackInput{
		Section: req.Section,
		Rating:  req.Rating,
		Comment: req.Comment,
		Payload: payload,
	})
	if err != nil {
		writeServiceError(w, r, err, "submit feedback")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toFeedbackResponse(f))
}
