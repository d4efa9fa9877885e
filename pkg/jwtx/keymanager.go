package jwtx

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aussiebroadwan/launchpad/pkg/cryptox"
)

// KeyManager owns the signing key and the verification key set for one
// launchpad instance.
type KeyManager struct {
	Verifier *EdDSAVerifier
	KeySet   *KeySet

	mu      sync.RWMutex
	current Signer
}

// KeyManagerOptions configures the KeyManager.
type KeyManagerOptions struct {
	// Issuer is the iss claim written and enforced.
	Issuer string

	// Audience values enforced on verification. Empty means no check.
	Audience []string
}

// NewEphemeralKeyManager creates a KeyManager with a freshly generated
// Ed25519 key that only lives in memory. Every restart invalidates all
// outstanding access tokens.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: Issuer is required")
	}

	km := &KeyManager{KeySet: NewKeySet()}
	km.Verifier = NewVerifierEdDSA(km.KeySet, opts.Issuer, opts.Audience)

	if err := km.Rotate(); err != nil {
		return nil, err
	}
	return km, nil
}

// Rotate generates a new signing key. The previous public key stays in the
// key set so tokens it signed remain valid until they expire.
func (km *KeyManager) Rotate() error {
	kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return fmt.Errorf("jwtx: generate kid: %w", err)
	}

	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return err
	}

	signer, err := NewSignerEdDSA("launchpad-"+kid, pemKey)
	if err != nil {
		return err
	}
	if err := signer.Validate(); err != nil {
		return err
	}
	if err := km.KeySet.AddSigner(signer); err != nil {
		return fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}

	km.mu.Lock()
	km.current = signer
	km.mu.Unlock()
	return nil
}

// Signer returns the active signing key.
func (km *KeyManager) Signer() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.current
}

// IsReady returns true if the KeyManager has valid keys loaded.
func (km *KeyManager) IsReady() bool {
	return km.Signer() != nil && km.KeySet.IsReady()
}
