package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tiebago/tieba/internal/api"
	"github.com/tiebago/tieba/internal/logging"
	"github.com/tiebago/tieba/internal/models"
	"github.com/tiebago/tieba/internal/normalize"
)

// CredentialStore persists the JWT token pair between sessions. It also
// serves the transport as its credential source.
type CredentialStore interface {
	SetTokens(access, refresh string) error
	Token() string
	RefreshToken() string
	Clear()
}

// UserStore synchronizes the authenticated user's session with the
// backend.
type UserStore struct {
	client   *api.Client
	creds    CredentialStore
	notifier Notifier
	log      zerolog.Logger

	mu   sync.RWMutex
	user *models.User
}

// NewUserStore creates a user store backed by the given transport and
// credential storage.
func NewUserStore(client *api.Client, creds CredentialStore, notifier Notifier) *UserStore {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &UserStore{
		client:   client,
		creds:    creds,
		notifier: notifier,
		log:      logging.Component("store.user"),
	}
}

// User returns the logged-in user, nil when logged out.
func (s *UserStore) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether a user profile is loaded.
func (s *UserStore) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Login authenticates, stores the token pair, then loads the profile.
func (s *UserStore) Login(ctx context.Context, form models.LoginForm) Result[models.User] {
	if err := form.Validate(); err != nil {
		s.notifier.Report(err.Error(), SeverityWarning)
		return fail[models.User](err.Error())
	}

	pair, err := s.client.Login(ctx, form.Username, form.Password)
	if err != nil {
		return reportFailure[models.User](s.notifier, s.log, err, "login failed")
	}
	if err := s.creds.SetTokens(pair.Access, pair.Refresh); err != nil {
		s.log.Warn().Err(err).Msg("persisting tokens")
	}

	raw, err := s.client.UserInfo(ctx)
	if err != nil {
		return reportFailure[models.User](s.notifier, s.log, err, "failed to load user profile")
	}

	user := normalize.User(raw)
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	s.notifier.Report("welcome back, "+user.Nickname, SeveritySuccess)
	return ok(user)
}

// Register creates an account. The caller still logs in afterwards.
func (s *UserStore) Register(ctx context.Context, form models.RegisterForm) Result[models.User] {
	if err := form.Validate(); err != nil {
		s.notifier.Report(err.Error(), SeverityWarning)
		return fail[models.User](err.Error())
	}

	raw, err := s.client.Register(ctx, form.Username, form.Password, form.Email, form.Nickname)
	if err != nil {
		return reportFailure[models.User](s.notifier, s.log, err, "registration failed")
	}

	user := normalize.User(raw)
	s.notifier.Report("account created, you can now log in", SeveritySuccess)
	return ok(user)
}

// Logout ends the session. Local state is cleared even when the remote
// call fails; a dead backend must not keep the client logged in.
func (s *UserStore) Logout(ctx context.Context) Status {
	err := s.client.Logout(ctx)

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.creds.Clear()

	if err != nil {
		s.log.Debug().Err(err).Msg("remote logout")
		s.notifier.Report("logged out locally; the server could not be reached", SeverityWarning)
		return done()
	}
	s.notifier.Report("logged out", SeveritySuccess)
	return done()
}

// CheckLoginStatus restores the session from a stored token. On an
// expired access token it tries the refresh token once before giving up.
func (s *UserStore) CheckLoginStatus(ctx context.Context) Result[models.User] {
	// An empty access token alone is not terminal: a refresh token left
	// over from an expired session can still renew it.
	if s.creds.Token() == "" && s.creds.RefreshToken() == "" {
		return fail[models.User]("not logged in")
	}

	raw, err := s.client.UserInfo(ctx)
	if err != nil && api.IsAuthError(err) {
		if refreshed := s.tryRefresh(ctx); refreshed {
			raw, err = s.client.UserInfo(ctx)
		}
	}
	if err != nil {
		if api.IsAuthError(err) {
			s.creds.Clear()
			return fail[models.User]("session expired, log in again")
		}
		return reportFailure[models.User](s.notifier, s.log, err, "failed to restore session")
	}

	user := normalize.User(raw)
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return ok(user)
}

func (s *UserStore) tryRefresh(ctx context.Context) bool {
	refresh := s.creds.RefreshToken()
	if refresh == "" {
		return false
	}
	pair, err := s.client.RefreshToken(ctx, refresh)
	if err != nil {
		s.log.Debug().Err(err).Msg("token refresh")
		return false
	}
	if pair.Refresh == "" {
		pair.Refresh = refresh
	}
	if err := s.creds.SetTokens(pair.Access, pair.Refresh); err != nil {
		s.log.Warn().Err(err).Msg("persisting refreshed tokens")
	}
	return true
}

// UpdateUserInfo patches profile fields and refreshes the local copy
// after the server confirms.
func (s *UserStore) UpdateUserInfo(ctx context.Context, fields map[string]any) Result[models.User] {
	current := s.User()
	if current == nil {
		s.notifier.Report("log in first", SeverityWarning)
		return fail[models.User]("log in first")
	}
	if len(fields) == 0 {
		return fail[models.User]("nothing to update")
	}

	raw, err := s.client.UpdateUser(ctx, current.ID, fields)
	if err != nil {
		return reportFailure[models.User](s.notifier, s.log, err, "failed to update profile")
	}

	user := normalize.User(raw)
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	s.notifier.Report("profile updated", SeveritySuccess)
	return ok(user)
}

// ChangePassword updates the password. The session stays valid; the
// backend does not revoke tokens on password change.
func (s *UserStore) ChangePassword(ctx context.Context, oldPassword, newPassword string) Status {
	if oldPassword == "" || newPassword == "" {
		s.notifier.Report("both passwords are required", SeverityWarning)
		return Status{Message: "both passwords are required"}
	}

	if err := s.client.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to change password")
	}

	s.notifier.Report("password changed", SeveritySuccess)
	return done()
}
