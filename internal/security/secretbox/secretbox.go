// Package secretbox encrypts small secrets (the Jobber client secret at
// rest) with AES-256-GCM under a process-wide master key.
//
// Wire format: base64(nonce) + "|" + base64(ciphertext). The master key is
// read once from SECRETBOX_MASTER_KEY (base64 of 32 bytes).
package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

const (
	envVar    = "SECRETBOX_MASTER_KEY"
	nonceSize = 12 // AES-GCM recommended nonce (96 bits)
	keyLength = 32 // AES-256
	sep       = "|"
)

var (
	masterKey []byte
	loadOnce  sync.Once
	loadErr   error
)

// ensureLoaded reads the master key from the environment exactly once.
func ensureLoaded() error {
	loadOnce.Do(func() {
		kb64 := strings.TrimSpace(os.Getenv(envVar))
		if kb64 == "" {
			loadErr = fmt.Errorf("%s not set; generate one with: openssl rand -base64 32", envVar)
			return
		}
		k, err := base64.StdEncoding.DecodeString(kb64)
		if err != nil {
			loadErr = fmt.Errorf("decode %s: %w", envVar, err)
			return
		}
		if len(k) != keyLength {
			loadErr = fmt.Errorf("%s must decode to %d bytes, got %d", envVar, keyLength, len(k))
			return
		}
		masterKey = k
	})
	return loadErr
}

// Ready reports whether the master key is loaded. Useful for config printing.
func Ready() bool {
	return ensureLoaded() == nil
}

func newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(masterKey)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plainText and returns base64(nonce)|base64(ciphertext).
func Encrypt(plainText string) (string, error) {
	if err := ensureLoaded(); err != nil {
		return "", err
	}
	aead, err := newGCM()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce random: %w", err)
	}
	ct := aead.Seal(nil, nonce, []byte(plainText), nil)

	return base64.StdEncoding.EncodeToString(nonce) + sep + base64.StdEncoding.EncodeToString(ct), nil
}

// Decrypt takes base64(nonce)|base64(ciphertext) and returns the plaintext.
// Tampered ciphertext fails GCM authentication.
func Decrypt(cipherText string) (string, error) {
	if err := ensureLoaded(); err != nil {
		return "", err
	}

	parts := strings.Split(cipherText, sep)
	if len(parts) != 2 {
		return "", errors.New("invalid format: expected base64(nonce)|base64(ciphertext)")
	}
	nonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("decode nonce: %w", err)
	}
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	if len(nonce) != nonceSize {
		return "", fmt.Errorf("invalid nonce: expected %d bytes, got %d", nonceSize, len(nonce))
	}

	aead, err := newGCM()
	if err != nil {
		return "", err
	}
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("gcm auth/decrypt: %w", err)
	}
	return string(pt), nil
}

// Looks reports whether a value looks like a secretbox ciphertext rather
// than a plaintext secret (dev configs keep secrets unencrypted).
func Looks(v string) bool {
	return strings.Contains(v, sep)
}

// UnsafeResetForTests clears the loaded key so tests can vary the env var.
// Never call it outside tests.
func UnsafeResetForTests() {
	loadOnce = sync.Once{}
	masterKey = nil
	loadErr = nil
}
