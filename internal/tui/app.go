// Package tui implements the interactive terminal interface: tieba
// browsing, post reading, the notification center and private chat,
// with a status bar showing the unread badge.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tiebago/tieba/internal/api"
	"github.com/tiebago/tieba/internal/config"
	"github.com/tiebago/tieba/internal/db"
	"github.com/tiebago/tieba/internal/logging"
	"github.com/tiebago/tieba/internal/store"
)

// ViewID identifies one of the top-level screens.
type ViewID string

const (
	ViewTiebas        ViewID = "tiebas"
	ViewPosts         ViewID = "posts"
	ViewNotifications ViewID = "notifications"
	ViewChat          ViewID = "chat"
)

var viewSwitchKeys = map[string]ViewID{
	"1": ViewTiebas,
	"2": ViewPosts,
	"3": ViewNotifications,
	"4": ViewChat,
}

// Stores bundles the state layer the views render from.
type Stores struct {
	Users    *store.UserStore
	Messages *store.MessageStore
	Tiebas   *store.TiebaStore
}

// Model is the root bubbletea model.
type Model struct {
	cfg     *config.Config
	stores  Stores
	palette Palette

	width  int
	height int

	active ViewID
	views  map[ViewID]viewModel

	status   string
	statusOK bool
}

type viewModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(m *Model) string
	Title() string
}

// statusMsg carries a transient notice into the status bar.
type statusMsg struct {
	text string
	ok   bool
}

// tickMsg drives the periodic unread-counter refresh.
type tickMsg time.Time

// NewModel builds the root model over already-wired stores.
func NewModel(cfg *config.Config, stores Stores) *Model {
	m := &Model{
		cfg:     cfg,
		stores:  stores,
		palette: newPalette(cfg.TUI.Theme),
		active:  ViewTiebas,
	}
	m.views = map[ViewID]viewModel{
		ViewTiebas:        newTiebasView(stores),
		ViewPosts:         newPostsView(stores),
		ViewNotifications: newNotificationsView(stores),
		ViewChat:          newChatView(stores),
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.views[ViewTiebas].Init(),
		refreshStatsCmd(m.stores),
		m.tick(),
	}
	return tea.Batch(cmds...)
}

func (m *Model) tick() tea.Cmd {
	interval := m.cfg.TUI.RefreshInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" || key == "q" {
			return m, tea.Quit
		}
		if next, ok := viewSwitchKeys[key]; ok {
			m.active = next
			return m, m.views[next].Init()
		}

	case switchViewMsg:
		m.active = msg.id
		return m, nil

	case statusMsg:
		m.status = msg.text
		m.statusOK = msg.ok
		return m, nil

	case tickMsg:
		return m, tea.Batch(refreshStatsCmd(m.stores), m.tick())
	}

	return m, m.views[m.active].Update(msg)
}

func (m *Model) View() string {
	var b strings.Builder

	title := m.palette.TitleBar.Render("tieba")
	tabs := m.renderTabs()
	b.WriteString(title + " " + tabs + "\n\n")

	b.WriteString(m.views[m.active].View(m))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *Model) renderTabs() string {
	order := []ViewID{ViewTiebas, ViewPosts, ViewNotifications, ViewChat}
	parts := make([]string, 0, len(order))
	for i, id := range order {
		label := fmt.Sprintf("%d:%s", i+1, m.views[id].Title())
		if id == m.active {
			parts = append(parts, m.palette.Selected.Render(label))
		} else {
			parts = append(parts, m.palette.Dim.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderStatusBar() string {
	stats := m.stores.Messages.Stats()

	left := "logged out"
	if user := m.stores.Users.User(); user != nil {
		left = "@" + user.Username
	}

	badge := ""
	if stats.UnreadCount > 0 {
		badge = m.palette.Badge.Render(fmt.Sprintf("%d unread", stats.UnreadCount))
	}

	notice := m.status
	if notice != "" {
		style := m.palette.Error
		if m.statusOK {
			style = m.palette.Success
		}
		notice = style.Render(notice)
	}

	bar := m.palette.StatusBar.Render(left + "  " + m.palette.Dim.Render("q quit · 1-4 switch · r refresh"))
	if badge == "" && notice == "" {
		return bar
	}
	return bar + " " + badge + " " + notice
}

// refreshStatsCmd re-fetches the first notification page so the unread
// badge stays current.
func refreshStatsCmd(stores Stores) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		res := stores.Messages.GetMessages(ctx, false, 1, 20)
		if !res.OK {
			return statusMsg{text: res.Message}
		}
		return statusMsg{ok: true}
	}
}

// Execute wires the configuration, database, transport and stores, then
// runs the TUI until quit.
func Execute(version string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: "error", Format: cfg.Logging.Format, Output: os.Stderr})

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	database, err := db.Open(cfg.DatabasePath(), cfg.Database.BusyTimeoutMs)
	if err != nil {
		return err
	}
	defer database.Close()

	creds, err := db.NewCredentialRepository(database)
	if err != nil {
		return err
	}
	client, err := api.NewClient(api.Config{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		Credentials: creds,
	})
	if err != nil {
		return err
	}

	stores := Stores{
		Users:    store.NewUserStore(client, creds, store.NopNotifier{}),
		Messages: store.NewMessageStore(client, store.NopNotifier{}),
		Tiebas:   store.NewTiebaStore(client, store.NopNotifier{}, db.NewSearchHistoryRepository(database)),
	}

	// Restore the session so the status bar can show the identity.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	stores.Users.CheckLoginStatus(ctx)
	cancel()

	program := tea.NewProgram(NewModel(cfg, stores), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
