package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/service"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
	"github.com/aussiebroadwan/launchpad/pkg/httpx"
	"github.com/aussiebroadwan/launchpad/pkg/jwtx"
	"github.com/aussiebroadwan/launchpad/pkg/slogx"

	_ "github.com/aussiebroadwan/launchpad/api/launchpad" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.RateLimitProfiles

	store            store.Store
	UserService      *service.UserService
	TokenService     *service.TokenService
	StartupService   *service.StartupService
	InviteService    *service.InviteService
	TrackerService   *service.TrackerService
	MilestoneService *service.MilestoneService
	FeedbackService  *service.FeedbackService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	limits httpx.RateLimitProfiles,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		limits:       limits,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(func(req *http.Request, v any) {
			slogx.FromContext(req.Context()).Error("handler panic", "panic", v, "route", req.Pattern)
		}),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerStartups()
	r.registerInvites()
	r.registerStartupData()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Launchpad API
//	@version		0.1.0
//	@description	Startup access and invitation control. Owners invite one mentor and any
//	@description	number of investors through single-use links; both get read-only access.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/launchpad
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed wraps h with bearer authentication and a per-user limit of its own.
func (r *Router) authed(h http.HandlerFunc, limit httpx.RateLimitConfig, extra ...httpx.Middleware) http.Handler {
	return r.authedShared(h, httpx.RateLimitBySubject(limit), extra...)
}

// authedShared is authed with a limiter that may be shared between routes.
func (r *Router) authedShared(h http.HandlerFunc, limiter httpx.Middleware, extra ...httpx.Middleware) http.Handler {
	mws := append([]httpx.Middleware{
		httpx.AuthnMiddleware(r.verifier),
		limiter,
	}, extra...)
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		UserService:  r.UserService,
		TokenService: r.TokenService,
	}

	// Credential endpoints share one bucket per IP and account to slow
	// guessing.
	credLimit := httpx.RateLimitByIPAndJSONField(r.limits.Strict, "email")
	r.Mux.Handle("POST /v1/auth/register", httpx.Chain(http.HandlerFunc(h.HandleRegister), credLimit))
	r.Mux.Handle("POST /v1/auth/token", httpx.Chain(http.HandlerFunc(h.HandleToken), credLimit))

	r.Mux.Handle("GET /v1/me", r.authed(h.HandleMe, r.limits.Public))
}

func (r *Router) registerStartups() {
	h := &StartupsHandler{StartupService: r.StartupService}

	r.Mux.Handle("POST /v1/startups",
		r.authed(h.HandleCreate, r.limits.Moderate, httpx.RequireRole(string(domain.RoleStartup))),
	)
	r.Mux.Handle("GET /v1/startups", r.authed(h.HandleList, r.limits.Public))
	r.Mux.Handle("GET /v1/startups/{id}", r.authed(h.HandleGet, r.limits.Public))
	r.Mux.Handle("PATCH /v1/startups/{id}", r.authed(h.HandleUpdate, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/startups/{id}", r.authed(h.HandleDelete, r.limits.Moderate))

	r.Mux.Handle("GET /v1/startups/{id}/members", r.authed(h.HandleMembers, r.limits.Public))
	r.Mux.Handle("DELETE /v1/startups/{id}/mentor", r.authed(h.HandleRemoveMentor, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/startups/{id}/investors/{userID}", r.authed(h.HandleRemoveInvestor, r.limits.Moderate))
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{InviteService: r.InviteService}

	r.Mux.Handle("POST /v1/startups/{id}/invites", r.authed(h.HandleIssue, r.limits.Moderate))
	r.Mux.Handle("GET /v1/startups/{id}/invites", r.authed(h.HandleList, r.limits.Public))
	r.Mux.Handle("POST /v1/invites/{inviteID}/revoke", r.authed(h.HandleRevoke, r.limits.Moderate))

	// Token routes share one moderate budget per user so links can't be
	// probed quickly by alternating between them.
	tokenLimit := httpx.RateLimitBySubject(r.limits.Moderate)
	r.Mux.Handle("GET /v1/invites/{token}", r.authedShared(h.HandleValidate, tokenLimit))
	r.Mux.Handle("POST /v1/invites/{token}/accept", r.authedShared(h.HandleAccept, tokenLimit))
}

func (r *Router) registerStartupData() {
	trackers := &TrackersHandler{TrackerService: r.TrackerService}
	r.Mux.Handle("GET /v1/startups/{id}/trackers", r.authed(trackers.HandleList, r.limits.Public))
	r.Mux.Handle("POST /v1/startups/{id}/trackers", r.authed(trackers.HandleCreate, r.limits.Moderate))
	r.Mux.Handle("PUT /v1/startups/{id}/trackers/{trackerID}", r.authed(trackers.HandleUpdate, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/startups/{id}/trackers/{trackerID}", r.authed(trackers.HandleDelete, r.limits.Moderate))

	milestones := &MilestonesHandler{MilestoneService: r.MilestoneService}
	r.Mux.Handle("GET /v1/startups/{id}/milestones", r.authed(milestones.HandleList, r.limits.Public))
	r.Mux.Handle("POST /v1/startups/{id}/milestones", r.authed(milestones.HandleCreate, r.limits.Moderate))
	r.Mux.Handle("PATCH /v1/startups/{id}/milestones/{milestoneID}", r.authed(milestones.HandleUpdate, r.limits.Moderate))
	r.Mux.Handle("DELETE /v1/startups/{id}/milestones/{milestoneID}", r.authed(milestones.HandleDelete, r.limits.Moderate))

	feedback := &FeedbackHandler{FeedbackService: r.FeedbackService}
	r.Mux.Handle("GET /v1/startups/{id}/feedback", r.authed(feedback.HandleList, r.limits.Public))
	r.Mux.Handle("POST /v1/startups/{id}/feedback",
		r.authed(feedback.HandleSubmit, r.limits.Moderate, httpx.RequireRole(string(domain.RoleMentor))),
	)
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll these frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}
