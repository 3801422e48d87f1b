package session_test

import (
	"testing"

	"github.com/99designs/keyring"

	"github.com/kwheeler/snailmail/internal/model"
	"github.com/kwheeler/snailmail/internal/session"
)

func strPtr(s string) *string { return &s }

func newTestManager() *session.Manager {
	return session.NewManager(keyring.NewArrayKeyring(nil))
}

func TestFreshManagerIsSignedOut(t *testing.T) {
	m := newTestManager()

	if m.IsAuthenticated() {
		t.Error("fresh manager reports authenticated")
	}
	if got := m.Token(); got != "" {
		t.Errorf("token = %q, want empty", got)
	}
	if got := m.User(); got != nil {
		t.Errorf("user = %+v, want nil", got)
	}
}

func TestStoreSessionRoundTrip(t *testing.T) {
	m := newTestManager()

	user := model.User{ID: 7, Email: "alice@example.com", Username: strPtr("alice")}
	if err := m.StoreSession("tok-abc", user); err != nil {
		t.Fatalf("StoreSession: %v", err)
	}

	if !m.IsAuthenticated() {
		t.Error("manager reports signed out after StoreSession")
	}
	if got := m.Token(); got != "tok-abc" {
		t.Errorf("token = %q, want tok-abc", got)
	}

	got := m.User()
	if got == nil {
		t.Fatal("user = nil after StoreSession")
	}
	if got.ID != 7 || got.Email != "alice@example.com" {
		t.Errorf("user = %+v", got)
	}
	if got.Username == nil || *got.Username != "alice" {
		t.Errorf("username = %v, want alice", got.Username)
	}
}

func TestStoreSessionOverwrites(t *testing.T) {
	m := newTestManager()

	if err := m.StoreSession("tok-old", model.User{ID: 1, Email: "old@example.com"}); err != nil {
		t.Fatalf("StoreSession: %v", err)
	}
	if err := m.StoreSession("tok-new", model.User{ID: 2, Email: "new@example.com"}); err != nil {
		t.Fatalf("StoreSession: %v", err)
	}

	if got := m.Token(); got != "tok-new" {
		t.Errorf("token = %q, want tok-new", got)
	}
	if got := m.User(); got == nil || got.ID != 2 {
		t.Errorf("user = %+v, want id 2", got)
	}
}

func TestClearSignsOut(t *testing.T) {
	m := newTestManager()

	if err := m.StoreSession("tok", model.User{ID: 1, Email: "a@example.com"}); err != nil {
		t.Fatalf("StoreSession: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if m.IsAuthenticated() {
		t.Error("manager still authenticated after Clear")
	}
	if got := m.User(); got != nil {
		t.Errorf("user = %+v after Clear, want nil", got)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	m := newTestManager()

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear on empty ring: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}
