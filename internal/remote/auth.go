package remote

import (
	"context"
	"errors"
	"net/http"

	"github.com/kwheeler/snailmail/internal/model"
)

// registerRequest is the body for POST /auth/register.
type registerRequest struct {
	Email    string  `json:"email"`
	Username *string `json:"username,omitempty"`
	Password string  `json:"password"`
}

// loginRequest is the body for POST /auth/login. Identifier is either
// an email address or a username.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token"`
}

type googleCallbackRequest struct {
	Code string `json:"code"`
}

// Register creates a new account and returns the signed-in session.
func (c *Client) Register(
	ctx context.Context,
	email, username, password string,
) (*model.AuthSession, error) {
	body := registerRequest{Email: email, Password: password}
	if username != "" {
		body.Username = &username
	}
	return c.authPost(ctx, "/auth/register", body, "Registration failed")
}

// Login signs in with an email or username plus password.
func (c *Client) Login(
	ctx context.Context,
	identifier, password string,
) (*model.AuthSession, error) {
	body := loginRequest{Identifier: identifier, Password: password}
	return c.authPost(ctx, "/auth/login", body, "Login failed")
}

// GoogleLogin signs in with a Google ID token obtained by the caller.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*model.AuthSession, error) {
	return c.authPost(ctx, "/auth/google", googleLoginRequest{IDToken: idToken}, "Google sign-in failed")
}

// GoogleCallback exchanges an OAuth authorization code for a session.
func (c *Client) GoogleCallback(ctx context.Context, code string) (*model.AuthSession, error) {
	return c.authPost(ctx, "/auth/google/callback", googleCallbackRequest{Code: code}, "Google sign-in failed")
}

// authPost posts an unauthenticated JSON body and parses the common
// auth response shape.
func (c *Client) authPost(
	ctx context.Context,
	path string,
	body interface{},
	fallback string,
) (*model.AuthSession, error) {
	var session model.AuthSession
	err := c.postJSON(ctx, path, body, "", &session)
	if err != nil {
		var te *TimeoutError
		if errors.As(err, &te) {
			return nil, err
		}
		_, msg := detailOrFallback(err, fallback)
		return nil, &AuthError{Message: msg}
	}
	return &session, nil
}

// Logout notifies the server that the session is over. It is
// best-effort: callers clear their local session whether or not this
// succeeds, so the returned error is informational.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", "", nil, c.tokens.Token(), nil)
	if err != nil {
		var te *TimeoutError
		if errors.As(err, &te) {
			return err
		}
		_, msg := detailOrFallback(err, "Logout failed")
		return &AuthError{Message: msg}
	}
	return nil
}
