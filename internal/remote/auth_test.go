package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kwheeler/snailmail/internal/remote"
)

func TestLoginReturnsSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Identifier string `json:"identifier"`
			Password   string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body.Identifier != "alice@example.com" || body.Password != "hunter22" {
			t.Errorf("body = %+v", body)
		}
		writeJSON(t, w, http.StatusOK, map[string]interface{}{
			"access_token": "tok-abc",
			"token_type":   "bearer",
			"user": map[string]interface{}{
				"id":    3,
				"email": "alice@example.com",
			},
		})
	})
	client, _ := newTestClient(t, handler, "")

	session, err := client.Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.AccessToken != "tok-abc" {
		t.Errorf("access token = %q", session.AccessToken)
	}
	if session.TokenType != "bearer" {
		t.Errorf("token type = %q", session.TokenType)
	}
	if session.User.Email != "alice@example.com" {
		t.Errorf("user email = %q", session.User.Email)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{
			"detail": "Incorrect email/username or password",
		})
	})
	client, _ := newTestClient(t, handler, "")

	_, err := client.Login(context.Background(), "alice", "wrong")
	var aerr *remote.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("got %v, want AuthError", err)
	}
	if aerr.Message != "Incorrect email/username or password" {
		t.Errorf("message = %q, want server detail", aerr.Message)
	}
}

func TestRegisterOmitsEmptyUsername(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if _, ok := body["username"]; ok {
			t.Error("empty username should be omitted from the request")
		}
		writeJSON(t, w, http.StatusCreated, map[string]interface{}{
			"access_token": "tok-new",
			"token_type":   "bearer",
			"user":         map[string]interface{}{"id": 1, "email": "bob@example.com"},
		})
	})
	client, _ := newTestClient(t, handler, "")

	session, err := client.Register(context.Background(), "bob@example.com", "", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if session.AccessToken != "tok-new" {
		t.Errorf("access token = %q", session.AccessToken)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, map[string]string{
			"detail": "Email already registered",
		})
	})
	client, _ := newTestClient(t, handler, "")

	_, err := client.Register(context.Background(), "bob@example.com", "bob", "password123")
	var aerr *remote.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("got %v, want AuthError", err)
	}
	if aerr.Message != "Email already registered" {
		t.Errorf("message = %q", aerr.Message)
	}
}

func TestRegisterFallbackMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	client, _ := newTestClient(t, handler, "")

	_, err := client.Register(context.Background(), "bob@example.com", "", "password123")
	var aerr *remote.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("got %v, want AuthError", err)
	}
	if aerr.Message != "Registration failed" {
		t.Errorf("message = %q, want generic fallback", aerr.Message)
	}
}

func TestLogoutSendsToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/logout" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})
	client, _ := newTestClient(t, handler, "tok-out")

	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if gotAuth != "Bearer tok-out" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}
