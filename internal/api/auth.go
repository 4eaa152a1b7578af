package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shikshadesk/shikshactl/internal/session"
)

const (
	loginPath   = "/Login/CheckLoginDetails"
	refreshPath = "/Login/CheckRefreshToken"

	// refreshTypeCheck is an opaque discriminator the refresh endpoint
	// requires; the server defines its meaning.
	refreshTypeCheck = "CHECK"
)

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	UserProfile struct {
		ID       int64  `json:"id"`
		Email    string `json:"email"`
		FullName string `json:"full_name"`
	} `json:"userProfile"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	LoginID      int64  `json:"loginId"`
	// RefreshExpiry is always null on the wire; the endpoint requires
	// the field to be present.
	RefreshExpiry *string `json:"refreshExpiry"`
	Type          string  `json:"type"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SignIn authenticates against the login endpoint and, on success,
// persists the complete session atomically and mirrors it in memory.
// On failure the stored session is left untouched and a *SignInError is
// returned whose Message prefers the server-provided message, then a
// generic transport message.
func (c *Client) SignIn(ctx context.Context, userName, password string) (*session.Session, error) {
	var resp loginResponse
	req := &apiRequest{
		method: http.MethodPost,
		path:   loginPath,
		body:   loginRequest{UserName: userName, Password: password},
		noAuth: true,
	}
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, &SignInError{Message: signInMessage(err), Cause: err}
	}

	// Fail closed on roles outside the known set.
	if _, err := session.ParseRole(resp.User.Role); err != nil {
		return nil, &SignInError{Message: "sign in failed", Cause: err}
	}

	sess := &session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User: &session.User{
			ID:    resp.User.ID,
			Email: resp.User.Email,
			Role:  resp.User.Role,
		},
		Profile: &session.Profile{
			ID:       resp.UserProfile.ID,
			Email:    resp.UserProfile.Email,
			FullName: resp.UserProfile.FullName,
		},
		RoleName: resp.User.Role,
	}
	if !sess.Valid() {
		return nil, &SignInError{
			Message: "sign in failed",
			Cause:   errors.New("login response missing session fields"),
		}
	}

	if err := c.store.Save(sess); err != nil {
		return nil, &SignInError{Message: "sign in failed", Cause: err}
	}
	c.setSession(sess.Clone())
	c.invalidateCache()

	c.logger.Debug("signed in", "user", sess.User.Email, "role", sess.RoleName)
	return sess.Clone(), nil
}

// SignOut clears the stored and in-memory session unconditionally.
// Logout is client-authoritative: no server round-trip is made.
func (c *Client) SignOut() error {
	err := c.store.Clear()
	c.setSession(&session.Session{})
	c.invalidateCache()
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// refreshTokens exchanges the stored refresh token for a new token pair
// and persists it. Only the token fields change; identity, profile, and
// role remain as signed in. The refresh call itself is unauthenticated
// so it never carries the expired access token.
func (c *Client) refreshTokens(ctx context.Context) (string, error) {
	sess := c.Session()
	if !sess.Valid() || sess.RefreshToken == "" {
		c.countRefresh("missing_session")
		return "", ErrNoSession
	}

	payload := refreshRequest{
		RefreshToken: sess.RefreshToken,
		Username:     sess.User.Email,
		Role:         sess.RoleName,
		LoginID:      sess.User.ID,
		Type:         refreshTypeCheck,
	}

	var resp refreshResponse
	req := &apiRequest{
		method: http.MethodPost,
		path:   refreshPath,
		body:   payload,
		noAuth: true,
	}
	if err := c.do(ctx, req, &resp); err != nil {
		c.countRefresh("rejected")
		return "", fmt.Errorf("refresh rejected: %w", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		c.countRefresh("rejected")
		return "", errors.New("refresh response missing token pair")
	}

	updated := sess.Clone()
	updated.AccessToken = resp.AccessToken
	updated.RefreshToken = resp.RefreshToken
	if err := c.store.Save(updated); err != nil {
		c.countRefresh("store_error")
		return "", fmt.Errorf("persist refreshed tokens: %w", err)
	}
	c.setSession(updated)

	c.countRefresh("success")
	c.logger.Debug("access token refreshed", "user", updated.User.Email)
	return resp.AccessToken, nil
}

// signInMessage picks the user-facing message for a failed sign-in:
// server message, then transport description, then a generic fallback.
func signInMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "sign in failed"
	}
	if err != nil {
		return "unable to reach the ShikshaDesk server"
	}
	return "sign in failed"
}
