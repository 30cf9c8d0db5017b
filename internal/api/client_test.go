package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeCreds struct {
	mu      sync.Mutex
	token   string
	refresh string
	expired bool
}

func (c *fakeCreds) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *fakeCreds) RefreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh
}

func (c *fakeCreds) ExpireToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expired = true
}

type fakeLoading struct {
	mu          sync.Mutex
	transitions []bool
}

func (l *fakeLoading) SetLoading(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.transitions = append(l.transitions, v)
}

func newServerClient(t *testing.T, handler http.HandlerFunc, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://example.com/api/"})
	require.NoError(t, err)
	require.Equal(t, "http://example.com/api", client.BaseURL())
}

func TestDoAttachesBearerToken(t *testing.T) {
	var got string
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}, Config{Credentials: &fakeCreds{token: "tok-123"}})

	var out struct{}
	require.NoError(t, client.get(context.Background(), "/x/", nil, &out))
	require.Equal(t, "Bearer tok-123", got)
}

func TestDoSkipsAuthHeaderWithoutToken(t *testing.T) {
	var got string
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}, Config{Credentials: &fakeCreds{}})

	require.NoError(t, client.get(context.Background(), "/x/", nil, nil))
	require.Empty(t, got)
}

func TestDoReportsLoadingAroundRequest(t *testing.T) {
	loading := &fakeLoading{}
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {}, Config{Loading: loading})

	require.NoError(t, client.get(context.Background(), "/x/", nil, nil))
	require.Equal(t, []bool{true, false}, loading.transitions)
}

func TestDoReportsLoadingOnFailureToo(t *testing.T) {
	loading := &fakeLoading{}
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, Config{Loading: loading})

	require.Error(t, client.get(context.Background(), "/x/", nil, nil))
	require.Equal(t, []bool{true, false}, loading.transitions)
}

func TestUnauthorizedExpiresAccessTokenOnly(t *testing.T) {
	creds := &fakeCreds{token: "stale", refresh: "still-good"}
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "token expired"}`))
	}, Config{Credentials: creds})

	err := client.get(context.Background(), "/x/", nil, nil)

	require.Error(t, err)
	require.True(t, IsAuthError(err))
	require.True(t, creds.expired)
	require.Empty(t, creds.Token())
	// The refresh token survives so the session can be renewed.
	require.Equal(t, "still-good", creds.RefreshToken())
}

func TestOtherErrorsKeepCredentials(t *testing.T) {
	creds := &fakeCreds{token: "fine"}
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, Config{Credentials: creds})

	require.Error(t, client.get(context.Background(), "/x/", nil, nil))
	require.False(t, creds.expired)
	require.Equal(t, "fine", creds.Token())
}

func TestErrorBodyParsing(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		detail  string
		message string
	}{
		{"detail only", `{"detail": "not found"}`, "not found", ""},
		{"message only", `{"message": "broke"}`, "", "broke"},
		{"both", `{"detail": "d", "message": "m"}`, "d", "m"},
		{"empty body", ``, "", ""},
		{"not json", `<html>oops</html>`, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}, Config{})

			err := client.get(context.Background(), "/x/", nil, nil)
			require.Error(t, err)

			apiErr, ok := err.(*Error)
			require.True(t, ok)
			require.Equal(t, http.StatusBadRequest, apiErr.Status)
			require.Equal(t, tt.detail, apiErr.Detail)
			require.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestConnectivityFailureHasZeroStatus(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	reqErr := client.get(context.Background(), "/x/", nil, nil)
	require.Error(t, reqErr)

	apiErr, ok := reqErr.(*Error)
	require.True(t, ok)
	require.Equal(t, 0, apiErr.Status)
	require.Equal(t, MsgNetworkFailure, ErrorMessage(reqErr, "fallback"))
}

func TestEmptyBodyWithOutIsNotAnError(t *testing.T) {
	client := newServerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, Config{})

	var out struct{ ID int64 }
	require.NoError(t, client.get(context.Background(), "/x/", nil, &out))
}
