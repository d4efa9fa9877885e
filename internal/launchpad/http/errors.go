package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/service"
	"github.com/aussiebroadwan/launchpad/pkg/httpx"
	"github.com/aussiebroadwan/launchpad/pkg/launchpadsdk"
	"github.com/aussiebroadwan/launchpad/pkg/slogx"
)

// serviceErrors maps service sentinels to a status and error code. Order
// matters: the conflict children come before ErrConflict itself.
var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrInvalidInput, http.StatusBadRequest, launchpadsdk.ErrorCodeInvalidRequest},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, launchpadsdk.ErrorCodeInvalidCredentials},
	{service.ErrRoleMismatch, http.StatusForbidden, launchpadsdk.ErrorCodeRoleMismatch},
	{service.ErrForbidden, http.StatusForbidden, launchpadsdk.ErrorCodeForbidden},
	{service.ErrNotFound, http.StatusNotFound, launchpadsdk.ErrorCodeNotFound},
	{service.ErrAlreadyAssigned, http.StatusConflict, launchpadsdk.ErrorCodeAlreadyAssigned},
	{service.ErrAlreadyMember, http.StatusConflict, launchpadsdk.ErrorCodeAlreadyMember},
	{service.ErrDuplicateActiveInvite, http.StatusConflict, launchpadsdk.ErrorCodeDuplicateActiveInvite},
	{service.ErrHasMembers, http.StatusConflict, launchpadsdk.ErrorCodeHasMembers},
	{service.ErrAlreadyExists, http.StatusConflict, launchpadsdk.ErrorCodeAlreadyExists},
	{service.ErrConflict, http.StatusConflict, launchpadsdk.ErrorCodeConflict},
	{service.ErrAlreadyUsed, http.StatusConflict, launchpadsdk.ErrorCodeAlreadyUsed},
	{service.ErrExpired, http.StatusGone, launchpadsdk.ErrorCodeExpired},
	{service.ErrRevoked, http.StatusGone, launchpadsdk.ErrorCodeRevoked},
}

// writeServiceError classifies err and writes the matching JSON error.
// Unknown errors are logged and reported as a 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			httpx.WriteError(w, m.status, m.code, err.Error())
			return
		}
	}

	slogx.FromContext(r.Context()).Error(action+" failed", "err", err)
	httpx.WriteError(w, http.StatusInternalServerError, launchpadsdk.ErrorCodeServerError, "Failed to "+action)
}

func writeBadBody(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, launchpadsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
}

func writeBadParam(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, launchpadsdk.ErrorCodeInvalidRequest, desc)
}
