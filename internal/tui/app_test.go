package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/tiebago/tieba/internal/config"
	"github.com/tiebago/tieba/internal/store"
)

func newTestModel() *Model {
	stores := Stores{
		Users:    store.NewUserStore(nil, nil, nil),
		Messages: store.NewMessageStore(nil, nil),
		Tiebas:   store.NewTiebaStore(nil, nil, nil),
	}
	return NewModel(config.DefaultConfig(), stores)
}

func TestModelStartsOnTiebasView(t *testing.T) {
	m := newTestModel()
	require.Equal(t, ViewTiebas, m.active)
}

func TestSwitchViewMessageActivatesView(t *testing.T) {
	m := newTestModel()

	// Opening a tieba emits this message alongside the post fetch.
	updated, _ := m.Update(switchViewMsg{id: ViewPosts})

	require.Same(t, m, updated)
	require.Equal(t, ViewPosts, m.active)
}

func TestNumberKeysSwitchViews(t *testing.T) {
	m := newTestModel()

	for key, want := range viewSwitchKeys {
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		require.Equal(t, want, m.active, key)
		// Switching re-initializes the target view.
		require.NotNil(t, cmd, key)
	}
}

func TestStatusMessageLandsInStatusBar(t *testing.T) {
	m := newTestModel()

	m.Update(statusMsg{text: "joined", ok: true})

	require.Equal(t, "joined", m.status)
	require.True(t, m.statusOK)
}
