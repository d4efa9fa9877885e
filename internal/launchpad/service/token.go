package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/domain"
	"github.com/aussiebroadwan/launchpad/pkg/jwtx"
	"github.com/aussiebroadwan/launchpad/pkg/slogx"
)

// AccessToken is a signed bearer token and its lifetime.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	ExpiresIn int64 // seconds
}

// TokenService mints the access tokens the HTTP layer verifies.
type TokenService struct {
	Keys     *jwtx.KeyManager
	Issuer   string
	Audience []string
	TTL      time.Duration
	Now      Clock
}

func (s *TokenService) Issue(ctx context.Context, u domain.User) (AccessToken, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}
	now := s.Now.now()

	claims := jwtx.NewAccessClaims(u.ID, string(u.Role), u.Email, u.Name, ttl, s.Issuer, s.Audience, now)
	signed, err := s.Keys.Signer().Sign(claims)
	if err != nil {
		return AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}

	slogx.FromContext(ctx).Debug("access token issued",
		slog.String("user_id", u.ID),
		slog.String("jti", claims.ID),
	)

	return AccessToken{
		Token:     signed,
		TokenType: "Bearer",
		ExpiresAt: now.Add(ttl),
		ExpiresIn: int64(ttl / time.Second),
	}, nil
}
