package launchpadsdk

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Session makes authenticated calls with one access token. Access tokens
// are not refreshable; once expired every call returns ErrSessionExpired.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

// AccessToken returns the bearer token this session sends.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return "", ErrSessionExpired
	}
	return s.accessToken, nil
}

func (s *Session) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	tok, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.doRequest(ctx, method, path, tok, body)
}

// call sends a request and decodes a JSON response with the given status.
func call[T any](ctx context.Context, s *Session, method, path string, body any, status int) (*T, error) {
	resp, err := s.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	var out T
	if err := decodeJSON(resp, &out, status); err != nil {
		return nil, err
	}
	return &out, nil
}

// callNoContent sends a request that answers 204.
func (s *Session) callNoContent(ctx context.Context, method, path string, body any) error {
	resp, err := s.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func startupPath(id string, rest ...string) string {
	p := "/v1/startups/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + url.PathEscape(r)
	}
	return p
}

// Me returns the authenticated user.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	return call[UserResponse](ctx, s, http.MethodGet, "/v1/me", nil, http.StatusOK)
}
