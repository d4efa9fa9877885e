package launchpadsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenFromURL(t *testing.T) {
	require.Equal(t, "abc_DEF-123", TokenFromURL("https://launchpad.example.com/invite/abc_DEF-123"))
	require.Equal(t, "tok", TokenFromURL("https://launchpad.example.com/app/invite/tok"))
	require.Empty(t, TokenFromURL("https://launchpad.example.com/startups/tok"))
	require.Empty(t, TokenFromURL("::not a url"))
}

func TestLoginAndSessionCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/token", func(w http.ResponseWriter, r *http.Request) {
		var req TokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "right" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorCodeInvalidCredentials})
			return
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tkn", TokenType: "Bearer", ExpiresIn: 3600})
	})
	mux.HandleFunc("GET /v1/me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(UserResponse{ID: "u1", Role: "MENTOR"})
	})
	mux.HandleFunc("POST /v1/invites/{token}/accept", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorCodeAlreadyUsed, ErrorDescription: "invite has already been used"})
	})
	mux.HandleFunc("DELETE /v1/startups/{id}/mentor", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "s1", r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	client := NewSDKClient(srv.URL + "/")

	_, err := client.Login(ctx, "max@example.com", "wrong")
	require.True(t, IsCode(err, ErrorCodeInvalidCredentials))
	require.Equal(t, http.StatusUnauthorized, StatusCode(err))

	session, err := client.Login(ctx, "max@example.com", "right")
	require.NoError(t, err)
	require.Equal(t, "tkn", session.AccessToken())

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "u1", me.ID)

	_, err = session.AcceptInvite(ctx, "some-token")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
	require.Equal(t, ErrorCodeAlreadyUsed, apiErr.Code)
	require.Contains(t, apiErr.Error(), "already been used")

	require.NoError(t, session.RemoveMentor(ctx, "s1"))
}

func TestExpiredSession(t *testing.T) {
	client := NewSDKClient("http://127.0.0.1:0")
	session := client.NewSession("tkn", -1)

	_, err := session.Me(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewSDKClient(srv.URL).GetReadiness(context.Background())
	require.True(t, IsCode(err, ErrorCodeServerError))
	require.Equal(t, http.StatusBadGateway, StatusCode(err))
}
