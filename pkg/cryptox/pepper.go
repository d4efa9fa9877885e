package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	pepperMu sync.RWMutex
	pepper   string
)

// ErrNoPepper is returned by the password helpers until LoadPepper or
// SetPepper has been called.
var ErrNoPepper = errors.New("cryptox: pepper not loaded")

// LoadPepper reads the pepper from file, generating and persisting a fresh
// one when the file does not exist yet.
func LoadPepper(file string) error {
	if file == "" {
		return errors.New("cryptox: empty pepper path")
	}

	value, err := loadOrGeneratePepper(filepath.Clean(file))
	if err != nil {
		return err
	}

	SetPepper(value)
	return nil
}

// SetPepper installs a pepper directly. Tests use this to avoid touching disk.
func SetPepper(value string) {
	pepperMu.Lock()
	defer pepperMu.Unlock()
	pepper = value
}

func currentPepper() (string, error) {
	pepperMu.RLock()
	defer pepperMu.RUnlock()
	if pepper == "" {
		return "", ErrNoPepper
	}
	return pepper, nil
}

func loadOrGeneratePepper(file string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return "", err
	}

	raw, err := os.ReadFile(file)
	if err == nil {
		return string(raw), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	value := base64.RawURLEncoding.EncodeToString(buf)

	if err := os.WriteFile(file, []byte(value), 0600); err != nil {
		return "", err
	}
	return value, nil
}
