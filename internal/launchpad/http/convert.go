package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/access"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/service"
	"github.com/aussiebroadwan/launchpad/pkg/httpx"
	"github.com/aussiebroadwan/launchpad/pkg/idx"
	"github.com/aussiebroadwan/launchpad/pkg/launchpadsdk"
)

// principal builds the service caller from the verified token claims.
// Routes without AuthnMiddleware get the zero principal, which every
// service rejects.
func principal(r *http.Request) domain.Principal {
	c, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		return domain.Principal{}
	}
	return domain.Principal{UserID: c.Subject, Role: domain.Role(c.Role)}
}

// pathID reads a ULID path parameter. Malformed ids can't name anything,
// so they are answered with 404 before reaching the store.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, err := idx.Parse(r.PathValue(name))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, launchpadsdk.ErrorCodeNotFound, "not found")
		return "", false
	}
	return id.String(), true
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(launchpadsdk.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a %s date", field, launchpadsdk.DateLayout)
	}
	return t, nil
}

func formatDate(t time.Time) string { return t.UTC().Format(launchpadsdk.DateLayout) }

// payloadFromSDK converts decoded JSON into the typed payload. Anything but
// a string, number, bool or null is rejected.
func payloadFromSDK(p launchpadsdk.Payload) (domain.Payload, error) {
	out := domain.Payload{
		SchemaVersion: p.SchemaVersion,
		Fields:        make(map[string]domain.Value, len(p.Fields)),
	}
	for k, v := range p.Fields {
		switch val := v.(type) {
		case nil:
			out.Fields[k] = domain.Null()
		case string:
			out.Fields[k] = domain.String(val)
		case float64:
			out.Fields[k] = domain.Number(val)
		case bool:
			out.Fields[k] = domain.Bool(val)
		default:
			return domain.Payload{}, fmt.Errorf("field %q must be a string, number, bool or null", k)
		}
	}
	return out, nil
}

func payloadToSDK(p domain.Payload) launchpadsdk.Payload {
	out := launchpadsdk.Payload{
		SchemaVersion: p.SchemaVersion,
		Fields:        make(map[string]any, len(p.Fields)),
	}
	for k, v := range p.Fields {
		switch v.Kind() {
		case domain.KindString:
			out.Fields[k], _ = v.AsString()
		case domain.KindNumber:
			out.Fields[k], _ = v.AsNumber()
		case domain.KindBool:
			out.Fields[k], _ = v.AsBool()
		default:
			out.Fields[k] = nil
		}
	}
	return out
}

func toUserResponse(u domain.User) launchpadsdk.UserResponse {
	return launchpadsdk.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toStartupResponse(s domain.Startup, level access.Level) launchpadsdk.StartupResponse {
	resp := launchpadsdk.StartupResponse{
		ID:       s.ID,
		OwnerID:  s.OwnerID,
		Name:     s.Name,
		Slug:     s.Slug,
		Industry: s.Industry,
		Stage:    string(s.Stage),
		Metadata: launchpadsdk.StartupMetadata{
			RegistrationNumber: s.Metadata.RegistrationNumber,
			ContactEmail:       s.Metadata.ContactEmail,
			ContactPhone:       s.Metadata.ContactPhone,
			Website:            s.Metadata.Website,
			Description:        s.Metadata.Description,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if access.HasAnyAccess(level) {
		resp.Access = string(level)
	}
	return resp
}

func toMemberResponse(m domain.Member) launchpadsdk.MemberResponse {
	return launchpadsdk.MemberResponse{
		UserID:   m.UserID,
		Email:    m.Email,
		Name:     m.Name,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

func toInviteResponse(inv domain.Invite, status domain.InviteStatus) launchpadsdk.InviteResponse {
	return launchpadsdk.InviteResponse{
		ID:        inv.ID,
		StartupID: inv.StartupID,
		Type:      string(inv.Type),
		Email:     inv.Email,
		Status:    string(status),
		ExpiresAt: inv.ExpiresAt,
		UsedAt:    inv.UsedAt,
		UsedBy:    inv.UsedBy,
		CreatedAt: inv.CreatedAt,
	}
}

func toInviteView(v service.InviteView) launchpadsdk.InviteViewResponse {
	return launchpadsdk.InviteViewResponse{
		InviteID:  v.InviteID,
		Type:      string(v.Type),
		ExpiresAt: v.ExpiresAt,
		Startup: launchpadsdk.InviteStartup{
			ID:       v.StartupID,
			Name:     v.StartupName,
			Industry: v.Industry,
			Stage:    string(v.Stage),
		},
	}
}

func toTrackerResponse(t domain.TrackerEntry) launchpadsdk.TrackerResponse {
	return launchpadsdk.TrackerResponse{
		ID:          t.ID,
		StartupID:   t.StartupID,
		Period:      string(t.Period),
		PeriodStart: formatDate(t.PeriodStart),
		Summary:     t.Summary,
		Metrics:     payloadToSDK(t.Metrics),
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toMilestoneResponse(m domain.Milestone) launchpadsdk.MilestoneResponse {
	resp := launchpadsdk.MilestoneResponse{
		ID:          m.ID,
		StartupID:   m.StartupID,
		Title:       m.Title,
		Description: m.Description,
		Status:      string(m.Status),
		CompletedAt: m.CompletedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.DueDate != nil {
		resp.DueDate = formatDate(*m.DueDate)
	}
	return resp
}

func toFeedbackResponse(f domain.Feedback) launchpadsdk.FeedbackResponse {
	return launchpadsdk.FeedbackResponse{
		ID:        f.ID,
		StartupID: f.StartupID,
		MentorID:  f.MentorID,
		Section:   f.Section,
		Rating:    f.Rating,
		Comment:   f.Comment,
		Payload:   payloadToSDK(f.Payload),
		CreatedAt: f.CreatedAt,
	}
}
