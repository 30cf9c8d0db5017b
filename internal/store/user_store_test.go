package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiebago/tieba/internal/api"
	"github.com/tiebago/tieba/internal/models"
)

// memCreds is an in-memory CredentialStore for tests.
type memCreds struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func (c *memCreds) SetTokens(access, refresh string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access, c.refresh = access, refresh
	return nil
}

func (c *memCreds) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access
}

func (c *memCreds) RefreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh
}

func (c *memCreds) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access, c.refresh = "", ""
}

func (c *memCreds) ExpireToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access = ""
}

func newUserStore(t *testing.T, handler http.Handler, creds *memCreds) *UserStore {
	t.Helper()
	client := newTestClientWithCreds(t, handler, creds)
	return NewUserStore(client, creds, nil)
}

func newTestClientWithCreds(t *testing.T, handler http.Handler, creds api.CredentialSource) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Config{BaseURL: srv.URL, Credentials: creds})
	require.NoError(t, err)
	return client
}

func TestLoginStoresTokensAndLoadsProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"access": "acc-1", "refresh": "ref-1"}`)
	})
	mux.HandleFunc("GET /auth/user/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer acc-1", r.Header.Get("Authorization"))
		writeJSON(t, w, `{"id": 7, "username": "gopher", "nickname": "Gopher"}`)
	})
	creds := &memCreds{}
	s := newUserStore(t, mux, creds)

	res := s.Login(context.Background(), models.LoginForm{Username: "gopher", Password: "secret"})

	require.True(t, res.OK)
	require.Equal(t, "acc-1", creds.Token())
	require.Equal(t, "ref-1", creds.RefreshToken())
	require.True(t, s.LoggedIn())
	require.Equal(t, "Gopher", s.User().Nickname)
}

func TestLoginValidatesLocally(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { called = true })
	s := newUserStore(t, mux, &memCreds{})

	res := s.Login(context.Background(), models.LoginForm{Username: "gopher"})

	require.False(t, res.OK)
	require.Contains(t, res.Message, "password")
	require.False(t, called)
}

func TestLoginRejectedShowsServerDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(t, w, `{"detail": "invalid credentials"}`)
	})
	creds := &memCreds{}
	s := newUserStore(t, mux, creds)

	res := s.Login(context.Background(), models.LoginForm{Username: "gopher", Password: "wrong"})

	require.False(t, res.OK)
	require.Equal(t, "invalid credentials", res.Message)
	require.False(t, s.LoggedIn())
	require.Empty(t, creds.Token())
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"id": 9, "username": "newbie"}`)
	})
	s := newUserStore(t, mux, &memCreds{})

	res := s.Register(context.Background(), models.RegisterForm{
		Username: "newbie",
		Password: "secret",
		Email:    "n@example.com",
	})

	require.True(t, res.OK)
	require.Equal(t, "newbie", res.Data.Username)
	// Registration does not log in.
	require.False(t, s.LoggedIn())
}

func TestLogoutClearsLocallyEvenWhenRemoteFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	creds := &memCreds{access: "acc", refresh: "ref"}
	s := newUserStore(t, mux, creds)
	s.mu.Lock()
	s.user = &models.User{ID: 1}
	s.mu.Unlock()

	res := s.Logout(context.Background())

	require.True(t, res.OK)
	require.False(t, s.LoggedIn())
	require.Empty(t, creds.Token())
	require.Empty(t, creds.RefreshToken())
}

func TestCheckLoginStatusWithoutTokenFailsFast(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { called = true })
	s := newUserStore(t, mux, &memCreds{})

	res := s.CheckLoginStatus(context.Background())

	require.False(t, res.OK)
	require.False(t, called)
}

func TestCheckLoginStatusRestoresSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/user/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"id": 7, "username": "gopher"}`)
	})
	creds := &memCreds{access: "acc"}
	s := newUserStore(t, mux, creds)

	res := s.CheckLoginStatus(context.Background())

	require.True(t, res.OK)
	require.True(t, s.LoggedIn())
	require.Equal(t, int64(7), s.User().ID)
}

func TestCheckLoginStatusRefreshesExpiredToken(t *testing.T) {
	var profileCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/user/", func(w http.ResponseWriter, r *http.Request) {
		profileCalls++
		if !strings.HasSuffix(r.Header.Get("Authorization"), "acc-new") {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(t, w, `{"detail": "token expired"}`)
			return
		}
		writeJSON(t, w, `{"id": 7, "username": "gopher"}`)
	})
	mux.HandleFunc("POST /auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"access": "acc-new"}`)
	})
	creds := &memCreds{access: "acc-old", refresh: "ref-1"}
	s := newUserStore(t, mux, creds)

	res := s.CheckLoginStatus(context.Background())

	require.True(t, res.OK)
	require.Equal(t, 2, profileCalls)
	require.Equal(t, "acc-new", creds.Token())
	// The old refresh token is kept when the server does not rotate it.
	require.Equal(t, "ref-1", creds.RefreshToken())
}

func TestCheckLoginStatusRenewsFromRefreshTokenOnly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/user/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.Header.Get("Authorization"), "acc-new") {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSON(t, w, `{"detail": "token expired"}`)
			return
		}
		writeJSON(t, w, `{"id": 7, "username": "gopher"}`)
	})
	mux.HandleFunc("POST /auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"access": "acc-new"}`)
	})
	// The access token was already dropped by an earlier 401; only the
	// refresh token survived.
	creds := &memCreds{refresh: "ref-1"}
	s := newUserStore(t, mux, creds)

	res := s.CheckLoginStatus(context.Background())

	require.True(t, res.OK)
	require.Equal(t, "acc-new", creds.Token())
	require.Equal(t, "ref-1", creds.RefreshToken())
}

func TestCheckLoginStatusGivesUpWhenRefreshFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/user/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(t, w, `{"detail": "token expired"}`)
	})
	mux.HandleFunc("POST /auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(t, w, `{"detail": "refresh expired"}`)
	})
	creds := &memCreds{access: "acc-old", refresh: "ref-old"}
	s := newUserStore(t, mux, creds)

	res := s.CheckLoginStatus(context.Background())

	require.False(t, res.OK)
	require.False(t, s.LoggedIn())
	require.Empty(t, creds.Token())
}

func TestUpdateUserInfoRequiresLogin(t *testing.T) {
	s := NewUserStore(nil, &memCreds{}, nil)

	res := s.UpdateUserInfo(context.Background(), map[string]any{"bio": "hi"})
	require.False(t, res.OK)
}

func TestUpdateUserInfoRefreshesProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /users/7/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"id": 7, "username": "gopher", "bio": "updated"}`)
	})
	s := newUserStore(t, mux, &memCreds{access: "acc"})
	s.mu.Lock()
	s.user = &models.User{ID: 7, Username: "gopher"}
	s.mu.Unlock()

	res := s.UpdateUserInfo(context.Background(), map[string]any{"bio": "updated"})

	require.True(t, res.OK)
	require.Equal(t, "updated", s.User().Bio)
}

func TestChangePassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/change-password/", func(w http.ResponseWriter, r *http.Request) {})
	s := newUserStore(t, mux, &memCreds{access: "acc"})

	require.False(t, s.ChangePassword(context.Background(), "", "new").OK)
	require.True(t, s.ChangePassword(context.Background(), "old", "new").OK)
}
