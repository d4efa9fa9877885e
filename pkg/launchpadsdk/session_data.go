package launchpadsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (s *Session) ListTrackers(ctx context.Context, startupID string) (*TrackerListResponse, error) {
	return call[TrackerListResponse](ctx, s, http.MethodGet, startupPath(startupID, "trackers"), nil, http.StatusOK)
}

func (s *Session) CreateTracker(ctx context.Context, startupID string, req TrackerRequest) (*TrackerResponse, error) {
	return call[TrackerResponse](ctx, s, http.MethodPost, startupPath(startupID, "trackers"), req, http.StatusCreated)
}

// UpdateTracker replaces a tracker entry.
func (s *Session) UpdateTracker(ctx context.Context, startupID, trackerID string, req TrackerRequest) (*TrackerResponse, error) {
	return call[TrackerResponse](ctx, s, http.MethodPut, startupPath(startupID, "trackers", trackerID), req, http.StatusOK)
}

func (s *Session) DeleteTracker(ctx context.Context, startupID, trackerID string) error {
	return s.callNoContent(ctx, http.MethodDelete, startupPath(startupID, "trackers", trackerID), nil)
}

func (s *Session) ListMilestones(ctx context.Context, startupID string) (*MilestoneListResponse, error) {
	return call[MilestoneListResponse](ctx, s, http.MethodGet, startupPath(startupID, "milestones"), nil, http.StatusOK)
}

func (s *Session) CreateMilestone(ctx context.Context, startupID string, req MilestoneRequest) (*MilestoneResponse, error) {
	return call[MilestoneResponse](ctx, s, http.MethodPost, startupPath(startupID, "milestones"), req, http.StatusCreated)
}

func (s *Session) UpdateMilestone(ctx context.Context, startupID, milestoneID string, req MilestonePatchRequest) (*MilestoneResponse, error) {
	return call[MilestoneResponse](ctx, s, http.MethodPatch, startupPath(startupID, "milestones", milestoneID), req, http.StatusOK)
}

func (s *Session) DeleteMilestone(ctx context.Context, startupID, milestoneID string) error {
	return s.callNoContent(ctx, http.MethodDelete, startupPath(startupID, "milestones", milestoneID), nil)
}

// ListFeedback returns feedback newest first. An empty section returns all.
func (s *Session) ListFeedback(ctx context.Context, startupID, section string) (*FeedbackListResponse, error) {
	p := startupPath(startupID, "feedback")
	if section != "" {
		p += "?section=" + url.QueryEscape(section)
	}
	return call[FeedbackListResponse](ctx, s, http.MethodGet, p, nil, http.StatusOK)
}

// SubmitFeedback posts feedback as the startup's mentor.
func (s *Session) SubmitFeedback(ctx context.Context, startupID string, req FeedbackRequest) (*FeedbackResponse, error) {
	return call[FeedbackResponse](ctx, s, http.MethodPost, startupPath(startupID, "feedback"), req, http.StatusCreated)
}
