package http

import (
	"net/http"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/service"
	"github.com/aussiebroadwan/launchpad/pkg/httpx"
	"github.com/aussiebroadwan/launchpad/pkg/launchpadsdk"
	"github.com/aussiebroadwan/launchpad/pkg/slogx"
)

type AuthHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Create an account. The role is fixed for the life of the account.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		launchpadsdk.RegisterRequest	true	"email, password, name, role"
//	@Success		201		{object}	launchpadsdk.UserResponse
//	@Failure		400		{object}	launchpadsdk.ErrorResponse	"invalid_request"
//	@Failure		409		{object}	launchpadsdk.ErrorResponse	"already_exists"
//	@Failure		429		{object}	launchpadsdk.ErrorResponse	"rate_limit_exceeded"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req launchpadsdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	u, err := h.UserService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		writeServiceError(w, r, err, "register user")
		return
	}

	slogx.FromContext(r.Context()).Info("user registered", "user_id", u.ID, "role", u.Role)
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

// HandleToken godoc
//
//	@Summary		Issue Access Token
//	@Description	Exchange email and password for a bearer access token.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		launchpadsdk.TokenRequest	true	"email, password"
//	@Success		200		{object}	launchpadsdk.TokenResponse
//	@Failure		400		{object}	launchpadsdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	launchpadsdk.ErrorResponse	"invalid_credentials"
//	@Failure		429		{object}	launchpadsdk.ErrorResponse	"rate_limit_exceeded"
//	@Router			/v1/auth/token [post].
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req launchpadsdk.TokenRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadBody(w)
		return
	}

	u, err := h.UserService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "authenticate")
		return
	}

	tok, err := h.TokenService.Issue(r.Context(), u)
	if err != nil {
		writeServiceError(w, r, err, "issue token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, launchpadsdk.TokenResponse{
		AccessToken: tok.Token,
		TokenType:   tok.TokenType,
		ExpiresIn:   tok.ExpiresIn,
	})
}

// HandleMe godoc
//
//	@Summary		Current User
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	launchpadsdk.UserResponse
//	@Failure		401	{object}	launchpadsdk.ErrorResponse	"invalid_token"
//	@Failure		404	{object}	launchpadsdk.ErrorResponse	"not_found"
//	@Router			/v1/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.Get(r.Context(), principal(r).UserID)
	if err != nil {
		writeServiceError(w, r, err, "load user")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}
