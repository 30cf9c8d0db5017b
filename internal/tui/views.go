package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tiebago/tieba/internal/models"
	"github.com/tiebago/tieba/internal/store"
)

const fetchTimeout = 10 * time.Second

func fetchCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), fetchTimeout)
}

// switchViewMsg asks the root model to activate another view.
type switchViewMsg struct {
	id ViewID
}

type tiebasLoadedMsg struct{ res store.Result[[]models.Tieba] }
type postsLoadedMsg struct{ res store.Result[[]models.Post] }
type notificationsLoadedMsg struct{ res store.Result[[]models.Notification] }
type conversationsLoadedMsg struct{ res store.Result[[]models.Conversation] }
type chatMessagesLoadedMsg struct{ res store.Result[[]models.DirectMessage] }

func noticeCmd(text string, ok bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, ok: ok} }
}

// ---- tiebas view ----

type tiebasView struct {
	stores Stores
	cursor int
}

func newTiebasView(stores Stores) *tiebasView {
	return &tiebasView{stores: stores}
}

func (v *tiebasView) Title() string { return "tiebas" }

func (v *tiebasView) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		return tiebasLoadedMsg{res: v.stores.Tiebas.GetTiebaList(ctx, "", 1, 20)}
	}
}

func (v *tiebasView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tiebasLoadedMsg:
		if !msg.res.OK {
			return noticeCmd(msg.res.Message, false)
		}
		v.clampCursor()
		return nil

	case tea.KeyMsg:
		items := v.stores.Tiebas.Tiebas.Items()
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(items)-1 {
				v.cursor++
			}
		case "r":
			return v.Init()
		case "J":
			if v.cursor < len(items) {
				id := items[v.cursor].ID
				return func() tea.Msg {
					ctx, cancel := fetchCtx()
					defer cancel()
					if res := v.stores.Tiebas.JoinTieba(ctx, id); !res.OK {
						return statusMsg{text: res.Message}
					}
					return statusMsg{text: "joined", ok: true}
				}
			}
		case "enter":
			if v.cursor < len(items) {
				tieba := items[v.cursor]
				return tea.Batch(
					func() tea.Msg {
						ctx, cancel := fetchCtx()
						defer cancel()
						v.stores.Tiebas.GetTiebaDetail(ctx, tieba.ID)
						return postsLoadedMsg{res: v.stores.Tiebas.GetPostList(ctx, tieba.ID, "", 1, 20)}
					},
					func() tea.Msg { return switchViewMsg{id: ViewPosts} },
				)
			}
		}
	}
	return nil
}

func (v *tiebasView) clampCursor() {
	if n := v.stores.Tiebas.Tiebas.Len(); v.cursor >= n && n > 0 {
		v.cursor = n - 1
	}
}

func (v *tiebasView) View(m *Model) string {
	items := v.stores.Tiebas.Tiebas.Items()
	if v.stores.Tiebas.Tiebas.Loading() && len(items) == 0 {
		return m.palette.Dim.Render("loading tiebas…")
	}
	if len(items) == 0 {
		return m.palette.Dim.Render("no tiebas")
	}

	var b strings.Builder
	b.WriteString(m.palette.SectionHead.Render("Tiebas") + "\n")
	for i, t := range items {
		line := fmt.Sprintf("%-24s %-12s %6d members", clip(t.DisplayName, 24), clip(t.Category, 12), t.MemberCount)
		if t.IsJoined {
			line += "  ✓"
		}
		b.WriteString(renderRow(m, line, i == v.cursor) + "\n")
	}
	b.WriteString(m.palette.Dim.Render("enter open · J join · r refresh"))
	return b.String()
}

// ---- posts view ----

type postsView struct {
	stores Stores
	cursor int
}

func newPostsView(stores Stores) *postsView {
	return &postsView{stores: stores}
}

func (v *postsView) Title() string { return "posts" }

func (v *postsView) Init() tea.Cmd {
	var tiebaID int64
	if current := v.stores.Tiebas.CurrentTieba(); current != nil {
		tiebaID = current.ID
	}
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		return postsLoadedMsg{res: v.stores.Tiebas.GetPostList(ctx, tiebaID, "", 1, 20)}
	}
}

func (v *postsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case postsLoadedMsg:
		if !msg.res.OK {
			return noticeCmd(msg.res.Message, false)
		}
		if n := v.stores.Tiebas.Posts.Len(); v.cursor >= n && n > 0 {
			v.cursor = n - 1
		}
		return nil

	case tea.KeyMsg:
		items := v.stores.Tiebas.Posts.Items()
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(items)-1 {
				v.cursor++
			}
		case "r":
			return v.Init()
		case "l":
			if v.cursor < len(items) {
				post := items[v.cursor]
				return func() tea.Msg {
					ctx, cancel := fetchCtx()
					defer cancel()
					if post.IsLiked {
						if res := v.stores.Tiebas.UnlikePost(ctx, post.ID); !res.OK {
							return statusMsg{text: res.Message}
						}
						return statusMsg{text: "unliked", ok: true}
					}
					if res := v.stores.Tiebas.LikePost(ctx, post.ID); !res.OK {
						return statusMsg{text: res.Message}
					}
					return statusMsg{text: "liked", ok: true}
				}
			}
		case "f":
			if v.cursor < len(items) {
				post := items[v.cursor]
				return func() tea.Msg {
					ctx, cancel := fetchCtx()
					defer cancel()
					if res := v.stores.Tiebas.FavoritePost(ctx, post.ID); !res.OK {
						return statusMsg{text: res.Message}
					}
					return statusMsg{text: "favorited", ok: true}
				}
			}
		}
	}
	return nil
}

func (v *postsView) View(m *Model) string {
	var b strings.Builder
	head := "Feed"
	if current := v.stores.Tiebas.CurrentTieba(); current != nil {
		head = current.DisplayName
	}
	b.WriteString(m.palette.SectionHead.Render(head) + "\n")

	items := v.stores.Tiebas.Posts.Items()
	if v.stores.Tiebas.Posts.Loading() && len(items) == 0 {
		return b.String() + m.palette.Dim.Render("loading posts…")
	}
	if len(items) == 0 {
		return b.String() + m.palette.Dim.Render("no posts")
	}

	for i, p := range items {
		liked := " "
		if p.IsLiked {
			liked = "♥"
		}
		line := fmt.Sprintf("%s %-42s %-14s %4d replies %4d likes",
			liked, clip(p.Title, 42), clip(p.Author.DisplayName(), 14), p.ReplyCount, p.LikeCount)
		b.WriteString(renderRow(m, line, i == v.cursor) + "\n")
	}
	b.WriteString(m.palette.Dim.Render("l like · f favorite · r refresh"))
	return b.String()
}

// ---- notifications view ----

type notificationsView struct {
	stores Stores
	cursor int
}

func newNotificationsView(stores Stores) *notificationsView {
	return &notificationsView{stores: stores}
}

func (v *notificationsView) Title() string { return "inbox" }

func (v *notificationsView) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		return notificationsLoadedMsg{res: v.stores.Messages.GetMessages(ctx, false, 1, 20)}
	}
}

func (v *notificationsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case notificationsLoadedMsg:
		if !msg.res.OK {
			return noticeCmd(msg.res.Message, false)
		}
		if n := v.stores.Messages.Notifications.Len(); v.cursor >= n && n > 0 {
			v.cursor = n - 1
		}
		return nil

	case tea.KeyMsg:
		items := v.stores.Messages.Notifications.Items()
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(items)-1 {
				v.cursor++
			}
		case "r":
			return v.Init()
		case "enter":
			if v.cursor < len(items) && !items[v.cursor].IsRead {
				id := items[v.cursor].ID
				return func() tea.Msg {
					ctx, cancel := fetchCtx()
					defer cancel()
					if res := v.stores.Messages.MarkAsRead(ctx, store.KindNotification, []int64{id}); !res.OK {
						return statusMsg{text: res.Message}
					}
					return statusMsg{text: "read", ok: true}
				}
			}
		case "a":
			return func() tea.Msg {
				ctx, cancel := fetchCtx()
				defer cancel()
				if res := v.stores.Messages.MarkAllAsRead(ctx); !res.OK {
					return statusMsg{text: res.Message}
				}
				return statusMsg{text: "all read", ok: true}
			}
		case "d":
			if v.cursor < len(items) {
				id := items[v.cursor].ID
				return func() tea.Msg {
					ctx, cancel := fetchCtx()
					defer cancel()
					if res := v.stores.Messages.DeleteMessage(ctx, store.KindNotification, id); !res.OK {
						return statusMsg{text: res.Message}
					}
					return statusMsg{text: "deleted", ok: true}
				}
			}
		}
	}
	return nil
}

func (v *notificationsView) View(m *Model) string {
	var b strings.Builder
	b.WriteString(m.palette.SectionHead.Render("Notifications") + "\n")

	items := v.stores.Messages.Notifications.Items()
	if v.stores.Messages.Notifications.Loading() && len(items) == 0 {
		return b.String() + m.palette.Dim.Render("loading…")
	}
	if len(items) == 0 {
		return b.String() + m.palette.Dim.Render("inbox empty")
	}

	for i, n := range items {
		marker := " "
		if !n.IsRead {
			marker = "●"
		}
		line := fmt.Sprintf("%s %-8s %-40s %s", marker, n.Type, clip(n.Title, 40), clip(n.Sender.DisplayName(), 14))
		if !n.IsRead {
			line = m.palette.Unread.Render(line)
		}
		b.WriteString(renderRow(m, line, i == v.cursor) + "\n")
	}
	b.WriteString(m.palette.Dim.Render("enter read · a read all · d delete · r refresh"))
	return b.String()
}

// ---- chat view ----

type chatView struct {
	stores   Stores
	cursor   int
	inThread bool
}

func newChatView(stores Stores) *chatView {
	return &chatView{stores: stores}
}

func (v *chatView) Title() string { return "chat" }

func (v *chatView) Init() tea.Cmd {
	v.inThread = false
	return func() tea.Msg {
		ctx, cancel := fetchCtx()
		defer cancel()
		return conversationsLoadedMsg{res: v.stores.Messages.GetConversations(ctx)}
	}
}

func (v *chatView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case conversationsLoadedMsg:
		if !msg.res.OK {
			return noticeCmd(msg.res.Message, false)
		}
		return nil

	case chatMessagesLoadedMsg:
		if !msg.res.OK {
			return noticeCmd(msg.res.Message, false)
		}
		v.inThread = true
		return nil

	case tea.KeyMsg:
		items := v.stores.Messages.Conversations.Items()
		switch msg.String() {
		case "esc":
			if v.inThread {
				v.inThread = false
			}
		case "up", "k":
			if !v.inThread && v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if !v.inThread && v.cursor < len(items)-1 {
				v.cursor++
			}
		case "r":
			if v.inThread {
				convID := v.stores.Messages.CurrentConversation()
				return func() tea.Msg {
					ctx, cancel := fetchCtx()
					defer cancel()
					return chatMessagesLoadedMsg{res: v.stores.Messages.GetPrivateMessages(ctx, convID, 1, 50)}
				}
			}
			return v.Init()
		case "enter":
			if !v.inThread && v.cursor < len(items) {
				conv := items[v.cursor]
				v.stores.Messages.SetCurrentConversation(conv.ID)
				return func() tea.Msg {
					ctx, cancel := fetchCtx()
					defer cancel()
					return chatMessagesLoadedMsg{res: v.stores.Messages.GetPrivateMessages(ctx, conv.ID, 1, 50)}
				}
			}
		}
	}
	return nil
}

func (v *chatView) View(m *Model) string {
	if v.inThread {
		return v.threadView(m)
	}

	var b strings.Builder
	b.WriteString(m.palette.SectionHead.Render("Conversations") + "\n")

	items := v.stores.Messages.Conversations.Items()
	if v.stores.Messages.Conversations.Loading() && len(items) == 0 {
		return b.String() + m.palette.Dim.Render("loading…")
	}
	if len(items) == 0 {
		return b.String() + m.palette.Dim.Render("no conversations")
	}

	selfID := int64(0)
	if user := v.stores.Users.User(); user != nil {
		selfID = user.ID
	}
	for i, c := range items {
		last := ""
		if c.LastMessage != nil {
			last = clip(c.LastMessage.Content, 40)
		}
		line := fmt.Sprintf("%-16s %s", clip(c.Peer(selfID).DisplayName(), 16), last)
		if c.UnreadCount > 0 {
			line = m.palette.Unread.Render(fmt.Sprintf("%s (%d)", line, c.UnreadCount))
		}
		b.WriteString(renderRow(m, line, i == v.cursor) + "\n")
	}
	b.WriteString(m.palette.Dim.Render("enter open · r refresh"))
	return b.String()
}

func (v *chatView) threadView(m *Model) string {
	var b strings.Builder
	b.WriteString(m.palette.SectionHead.Render("Messages") + "\n")

	items := v.stores.Messages.PrivateMessages.Items()
	if len(items) == 0 {
		b.WriteString(m.palette.Dim.Render("no messages") + "\n")
	}
	for _, msg := range items {
		b.WriteString(fmt.Sprintf("%s %s: %s\n",
			m.palette.Dim.Render(msg.CreateTime.Local().Format("15:04")),
			msg.Sender.DisplayName(), msg.Content))
	}
	b.WriteString(m.palette.Dim.Render("esc back · r refresh"))
	return b.String()
}

// ---- shared helpers ----

func renderRow(m *Model, line string, selected bool) string {
	if selected {
		return m.palette.Selected.Render("> " + line)
	}
	return "  " + line
}

func clip(value string, width int) string {
	value = strings.ReplaceAll(value, "\n", " ")
	if len(value) <= width {
		return value
	}
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-1]) + "…"
}
