package jwtx

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// MaxRetainedKeys bounds how many verification keys a KeySet keeps. Adding
// a key beyond that drops the oldest, so access tokens it signed stop
// verifying.
const MaxRetainedKeys = 3

// KeySet holds the public verification keys, oldest first. The JWKS
// handler reads it while the key manager rotates.
type KeySet struct {
	mu   sync.RWMutex
	keys []JWK
	pub  map[string]ed25519.PublicKey
}

func NewKeySet() *KeySet {
	return &KeySet{pub: make(map[string]ed25519.PublicKey)}
}

// AddSigner publishes a signer's public key.
func (k *KeySet) AddSigner(s Signer) error {
	return k.AddJWK(s.PublicJWK())
}

// AddJWK adds j, replacing any key with the same kid.
func (k *KeySet) AddJWK(j JWK) error {
	key, err := decodeEd25519(j)
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	k.keys = slices.DeleteFunc(k.keys, func(old JWK) bool { return old.Kid == j.Kid })
	k.keys = append(k.keys, j)
	k.pub[j.Kid] = key

	for len(k.keys) > MaxRetainedKeys {
		delete(k.pub, k.keys[0].Kid)
		k.keys = k.keys[1:]
	}
	return nil
}

func (k *KeySet) Get(kid string) (ed25519.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if pk, ok := k.pub[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// PublicJWKS is a copy safe to serialise after the lock is released.
func (k *KeySet) PublicJWKS() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return JWKS{Keys: slices.Clone(k.keys)}
}

func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub) > 0
}

func decodeEd25519(j JWK) (ed25519.PublicKey, error) {
	if j.Kty != "OKP" || j.Crv != "Ed25519" {
		return nil, fmt.Errorf("jwtx: unsupported key type %s/%s", j.Kty, j.Crv)
	}
	if j.Kid == "" {
		return nil, errors.New("jwtx: key has no kid")
	}
	xb, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, fmt.Errorf("jwtx: decode x: %w", err)
	}
	if len(xb) != ed25519.PublicKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 public key size")
	}
	return ed25519.PublicKey(xb), nil
}
