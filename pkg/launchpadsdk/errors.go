package launchpadsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in the "error" field of every failed response.
const (
	ErrorCodeInvalidRequest        = "invalid_request"
	ErrorCodeInvalidToken          = "invalid_token"
	ErrorCodeInvalidCredentials    = "invalid_credentials"
	ErrorCodeForbidden             = "forbidden"
	ErrorCodeRoleMismatch          = "role_mismatch"
	ErrorCodeNotFound              = "not_found"
	ErrorCodeConflict              = "conflict"
	ErrorCodeAlreadyAssigned       = "already_assigned"
	ErrorCodeAlreadyMember         = "already_member"
	ErrorCodeDuplicateActiveInvite = "duplicate_active_invite"
	ErrorCodeHasMembers            = "has_members"
	ErrorCodeAlreadyExists         = "already_exists"
	ErrorCodeAlreadyUsed           = "already_used"
	ErrorCodeExpired               = "expired"
	ErrorCodeRevoked               = "revoked"
	ErrorCodeRateLimitExceeded     = "rate_limit_exceeded"
	ErrorCodeServerError           = "server_error"
)

// ErrSessionExpired is returned by Session calls once the access token has
// expired. Log in again to get a new Session.
var ErrSessionExpired = errors.New("launchpadsdk: access token expired")

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// APIError is a failed API call.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Description)
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// StatusCode returns the HTTP status of an APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: http.StatusText(resp.StatusCode),
	}
}
