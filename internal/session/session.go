// Package session holds the signed-in state of the application: the
// bearer token and the user profile, persisted in the system keyring
// so a restart does not sign the user out.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/kwheeler/snailmail/internal/model"
)

const serviceName = "snailmail"

// Keyring entry keys.
const (
	keyAccessToken = "access_token"
	keyUser        = "user"
)

// Manager is the authentication session state. It is constructed once
// and handed to every component that needs it; nothing reads ambient
// global state. The manager only tracks token presence — it does not
// validate expiry or signature, so a stale token still reads as signed
// in until a real request is rejected.
type Manager struct {
	ring keyring.Keyring
}

// NewManager creates a session manager over the given keyring. Tests
// inject keyring.NewArrayKeyring; production code uses Open.
func NewManager(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// Open returns a session manager backed by the system keyring, falling
// back to an encrypted file when no native backend is available.
func Open() (*Manager, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/snailmail/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("snailmail-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewManager(ring), nil
}

// StoreSession persists the token and user profile, overwriting any
// prior session.
func (m *Manager) StoreSession(token string, user model.User) error {
	if err := m.ring.Set(keyring.Item{
		Key:  keyAccessToken,
		Data: []byte(token),
	}); err != nil {
		return fmt.Errorf("storing access token: %w", err)
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshaling user profile: %w", err)
	}
	if err := m.ring.Set(keyring.Item{
		Key:  keyUser,
		Data: userJSON,
	}); err != nil {
		return fmt.Errorf("storing user profile: %w", err)
	}

	return nil
}

// Token returns the stored bearer token, or the empty string when no
// session exists.
func (m *Manager) Token() string {
	item, err := m.ring.Get(keyAccessToken)
	if err != nil {
		return ""
	}
	return string(item.Data)
}

// User returns the stored profile, or nil when no session exists or
// the stored entry cannot be decoded.
func (m *Manager) User() *model.User {
	item, err := m.ring.Get(keyUser)
	if err != nil {
		return nil
	}

	var user model.User
	if err := json.Unmarshal(item.Data, &user); err != nil {
		return nil
	}
	return &user
}

// IsAuthenticated reports whether a token is present. Presence is all
// it checks.
func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

// Clear removes the token and profile. Entries that are already gone
// are not an error, so Clear is idempotent.
func (m *Manager) Clear() error {
	for _, key := range []string{keyAccessToken, keyUser} {
		err := m.ring.Remove(key)
		if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("clearing session entry %q: %w", key, err)
		}
	}
	return nil
}
