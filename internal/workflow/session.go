package workflow

import (
	"context"
	"errors"

	"lexio/config"
	"lexio/pkg/contentapi"
	"lexio/pkg/logger"
)

var ErrNotAuthenticated = errors.New("not logged in")

// Session is the explicit application-scoped auth state: the current user
// and token, populated on login and cleared on logout. It is passed by
// reference to whatever needs it; there is no ambient lookup.
type Session struct {
	api   *contentapi.Client
	user  *contentapi.User
	token string
}

func NewSession(api *contentapi.Client) *Session {
	return &Session{api: api}
}

// Login authenticates and installs the bearer token on the shared client.
func (s *Session) Login(ctx context.Context, username, password string) error {
	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	s.token = res.AccessToken
	s.user = &res.User
	s.api.SetToken(res.AccessToken)
	return nil
}

// Logout clears the session. The server is notified best-effort; the local
// state is cleared regardless.
func (s *Session) Logout(ctx context.Context) {
	if s.token != "" {
		if err := s.api.Logout(ctx); err != nil {
			logger.Warn("%v: logout call failed: %v", config.ModuleWorkflow, err)
		}
	}
	s.token = ""
	s.user = nil
	s.api.ClearToken()
}

func (s *Session) Authenticated() bool { return s.token != "" }

// User returns the logged-in profile, nil when logged out.
func (s *Session) User() *contentapi.User { return s.user }

// Refresh re-fetches the profile from the server.
func (s *Session) Refresh(ctx context.Context) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	user, err := s.api.Me(ctx)
	if err != nil {
		return err
	}
	s.user = user
	return nil
}

// UpdateProfile applies profile edits and refreshes the held user.
func (s *Session) UpdateProfile(ctx context.Context, update contentapi.ProfileUpdate) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	user, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	s.user = user
	return nil
}

// DeleteWithConfirm runs del only after confirm returns true. Declining the
// confirmation issues no call at all.
func DeleteWithConfirm(confirm func() bool, del func() error) error {
	if !confirm() {
		return nil
	}
	return del()
}
