package store

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiebago/tieba/internal/api"
)

// newTestClient spins up an httptest server for the given handler and
// returns a transport client pointed at it.
func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

// recordNotifier captures every reported notice for assertions.
type recordNotifier struct {
	mu       sync.Mutex
	messages []string
	last     Severity
}

func (n *recordNotifier) Report(message string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	n.last = severity
}

func (n *recordNotifier) lastMessage() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

func writeJSON(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("writing response: %v", err)
	}
}
