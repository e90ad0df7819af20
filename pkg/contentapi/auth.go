package contentapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Login exchanges credentials for a bearer token. The token is not installed
// on the client automatically; callers decide session lifecycle.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}
	var out LoginResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*User, error) {
	var out User
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/register", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the current user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.getJSON(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies the non-nil fields of the update to the current user.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var out User
	if err := c.sendJSON(ctx, http.MethodPut, "/auth/me", update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the server the session ended; the token is discarded client side.
func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Dashboard fetches the per-user content totals.
func (c *Client) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var out DashboardSummary
	if err := c.getJSON(ctx, "/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
