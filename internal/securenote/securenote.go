// Package securenote encrypts free-text asset notes at rest with fernet tokens.
package securenote

import (
	"fmt"
	"strings"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Asset-Inventory-Manager-Backend/internal/apperrors"
)

// Sealer encrypts with the first configured key and decrypts with any of them,
// so keys can be rotated by prepending a new one.
type Sealer struct {
	keys []*fernet.Key
}

// NewSealer parses a comma-separated list of base64 fernet keys.
// An empty list yields a Sealer that refuses to seal or open notes.
func NewSealer(encodedKeys string) (*Sealer, error) {
	var parts []string
	for _, p := range strings.Split(encodedKeys, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return &Sealer{}, nil
	}

	keys, err := fernet.DecodeKeys(parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode secure note key: %w", err)
	}
	return &Sealer{keys: keys}, nil
}

// Enabled reports whether a key is configured.
func (s *Sealer) Enabled() bool {
	return s != nil && len(s.keys) > 0
}

// Seal encrypts a note and returns the token to store.
func (s *Sealer) Seal(note string) (string, error) {
	if !s.Enabled() {
		return "", apperrors.ErrSecureNoteKeyMissing
	}
	token, err := fernet.EncryptAndSign([]byte(note), s.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secure note: %w", err)
	}
	return string(token), nil
}

// Open decrypts a stored token. Tokens never expire.
func (s *Sealer) Open(token string) (string, error) {
	if !s.Enabled() {
		return "", apperrors.ErrSecureNoteKeyMissing
	}
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, s.keys)
	if msg == nil {
		return "", apperrors.ErrFailedToDecryptNote
	}
	return string(msg), nil
}

// GenerateKey returns a new random key in the encoding NewSealer expects.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return k.Encode(), nil
}
