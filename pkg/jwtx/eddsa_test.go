package jwtx_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/launchpad/pkg/cryptox"
	"github.com/aussiebroadwan/launchpad/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "https://launchpad.example.com"

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())
	return signer
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newSigner(t, "test-key-eddsa")
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "test-key-eddsa", signer.KID())

	claims := jwtx.NewAccessClaims(
		"user-456", "INVESTOR", "ivy@example.com", "Ivy",
		5*time.Minute, exampleIssuer, []string{"api"}, time.Now().UTC(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.AddSigner(signer))

	jwks := keyset.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)

	got, err := jwtx.NewVerifierEdDSA(keyset, exampleIssuer, []string{"api"}).Verify(token)
	require.NoError(t, err)
	require.Equal(t, claims.Subject, got.Subject)
	require.Equal(t, claims.Role, got.Role)
	require.Equal(t, claims.Email, got.Email)
	require.Equal(t, claims.Name, got.Name)
	require.Equal(t, claims.ID, got.ID)
}

func TestEdDSAVerifyFailures(t *testing.T) {
	signer := newSigner(t, "k1")
	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.AddSigner(signer))

	now := time.Now().UTC()
	sign := func(c jwtx.Claims) string {
		tok, err := signer.Sign(c)
		require.NoError(t, err)
		return tok
	}

	t.Run("wrong issuer", func(t *testing.T) {
		tok := sign(jwtx.NewAccessClaims("u", "STARTUP", "", "", time.Minute, "other", nil, now))
		_, err := jwtx.NewVerifierEdDSA(keyset, exampleIssuer, nil).Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		tok := sign(jwtx.NewAccessClaims("u", "STARTUP", "", "", time.Minute, exampleIssuer, []string{"web"}, now))
		_, err := jwtx.NewVerifierEdDSA(keyset, exampleIssuer, []string{"api"}).Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("expired", func(t *testing.T) {
		tok := sign(jwtx.NewAccessClaims("u", "STARTUP", "", "", time.Minute, exampleIssuer, nil, now.Add(-time.Hour)))
		_, err := jwtx.NewVerifierEdDSA(keyset, exampleIssuer, nil).Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("unknown kid", func(t *testing.T) {
		other := newSigner(t, "k2")
		tok, err := other.Sign(jwtx.NewAccessClaims("u", "STARTUP", "", "", time.Minute, exampleIssuer, nil, now))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(keyset, exampleIssuer, nil).Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA(keyset, exampleIssuer, nil).Verify("not-a-jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("missing role", func(t *testing.T) {
		tok := sign(jwtx.NewAccessClaims("u", "", "", "", time.Minute, exampleIssuer, nil, now))
		_, err := jwtx.NewVerifierEdDSA(keyset, exampleIssuer, nil).Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})
}

func TestKeySet(t *testing.T) {
	ks := jwtx.NewKeySet()
	require.False(t, ks.IsReady())

	first := newSigner(t, "k1").PublicJWK()
	require.NoError(t, ks.AddJWK(first))
	require.NoError(t, ks.AddJWK(first), "re-adding a kid replaces it")
	require.Len(t, ks.PublicJWKS().Keys, 1)
	require.True(t, ks.IsReady())

	_, err := ks.Get("missing")
	require.ErrorIs(t, err, jwtx.ErrNoKey)

	for i := range jwtx.MaxRetainedKeys {
		require.NoError(t, ks.AddSigner(newSigner(t, fmt.Sprintf("next-%d", i))))
	}
	require.Len(t, ks.PublicJWKS().Keys, jwtx.MaxRetainedKeys)
	_, err = ks.Get("k1")
	require.ErrorIs(t, err, jwtx.ErrNoKey, "oldest key is dropped")

	bad := first
	bad.Kty = "RSA"
	require.Error(t, ks.AddJWK(bad))

	bad = first
	bad.X = "AAAA"
	require.Error(t, ks.AddJWK(bad))
}

func TestNewSignerEdDSA_RejectsBadPEM(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("k", []byte("nope"))
	require.Error(t, err)
}
