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

// MessageKind qualifies which collection a message id belongs to, so
// read/delete operations never touch an unrelated collection that happens
// to contain the same numeric id.
type MessageKind string

const (
	KindNotification MessageKind = "notification"
	KindPrivate      MessageKind = "private"
)

// MessageStore synchronizes notifications, direct messages and
// conversations with the backend and keeps the unread stats current.
type MessageStore struct {
	client   *api.Client
	notifier Notifier
	log      zerolog.Logger

	// Notifications holds the system notification feed.
	Notifications *Collection[models.Notification]
	// PrivateMessages holds the messages of the current conversation.
	PrivateMessages *Collection[models.DirectMessage]
	// Conversations holds the conversation list.
	Conversations *Collection[models.Conversation]

	mu                  sync.RWMutex
	stats               models.MessageStats
	currentConversation int64
}

// NewMessageStore creates a message store backed by the given transport.
func NewMessageStore(client *api.Client, notifier Notifier) *MessageStore {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &MessageStore{
		client:   client,
		notifier: notifier,
		log:      logging.Component("store.message"),

		Notifications:   NewCollection(func(n models.Notification) int64 { return n.ID }),
		PrivateMessages: NewCollection(func(m models.DirectMessage) int64 { return m.ID }),
		Conversations:   NewCollection(func(c models.Conversation) int64 { return c.ID }),
	}
}

// Stats returns the current unread counters.
func (s *MessageStore) Stats() models.MessageStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// CurrentConversation returns the selected conversation id, zero if none.
func (s *MessageStore) CurrentConversation() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentConversation
}

// SetCurrentConversation selects a conversation for subsequent fetches.
func (s *MessageStore) SetCurrentConversation(id int64) {
	s.mu.Lock()
	s.currentConversation = id
	s.mu.Unlock()
}

// RecomputeStats rebuilds the unread counters from the collections.
// Called after every mutation that can change read state or membership.
func (s *MessageStore) RecomputeStats() {
	stats := ComputeStats(s.Notifications.Items(), s.PrivateMessages.Items())
	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
}

// GetMessages fetches one page of notifications. Page 1 replaces the
// collection, later pages append.
func (s *MessageStore) GetMessages(ctx context.Context, unreadOnly bool, page, pageSize int) Result[[]models.Notification] {
	s.Notifications.setLoading(true)
	defer s.Notifications.setLoading(false)

	resp, err := s.client.Notifications(ctx, api.NotificationQuery{
		Page:       page,
		PageSize:   pageSize,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		return reportFailure[[]models.Notification](s.notifier, s.log, err, "failed to fetch messages")
	}

	items := make([]models.Notification, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, normalize.Notification(raw))
	}
	s.Notifications.ApplyPage(page, items, resp.HasMore())
	s.RecomputeStats()
	return okPage(items, resp.HasMore())
}

// GetPrivateMessages fetches one page of the given conversation's
// messages. Fails locally when no conversation is selected.
func (s *MessageStore) GetPrivateMessages(ctx context.Context, conversationID int64, page, pageSize int) Result[[]models.DirectMessage] {
	if conversationID <= 0 {
		conversationID = s.CurrentConversation()
	}
	if conversationID <= 0 {
		s.notifier.Report("select a conversation first", SeverityWarning)
		return fail[[]models.DirectMessage]("select a conversation first")
	}

	s.PrivateMessages.setLoading(true)
	defer s.PrivateMessages.setLoading(false)

	resp, err := s.client.ConversationMessages(ctx, conversationID, page, pageSize)
	if err != nil {
		return reportFailure[[]models.DirectMessage](s.notifier, s.log, err, "failed to fetch private messages")
	}

	items := make([]models.DirectMessage, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, normalize.DirectMessage(raw, conversationID))
	}
	s.PrivateMessages.ApplyPage(page, items, resp.HasMore())
	s.RecomputeStats()
	return okPage(items, resp.HasMore())
}

// GetConversations fetches the conversation list.
func (s *MessageStore) GetConversations(ctx context.Context) Result[[]models.Conversation] {
	s.Conversations.setLoading(true)
	defer s.Conversations.setLoading(false)

	resp, err := s.client.Conversations(ctx, 1, 0)
	if err != nil {
		return reportFailure[[]models.Conversation](s.notifier, s.log, err, "failed to fetch conversations")
	}

	items := make([]models.Conversation, 0, len(resp.Results))
	for _, raw := range resp.Results {
		items = append(items, normalize.Conversation(raw))
	}
	s.Conversations.Replace(items)
	return ok(items)
}

// SendPrivateMessage sends a direct message, creating the conversation
// first when the form has none. The new message is inserted at the front
// of the collection after the server acknowledges it.
func (s *MessageStore) SendPrivateMessage(ctx context.Context, form models.SendMessageForm) Result[models.DirectMessage] {
	if err := form.Validate(); err != nil {
		s.notifier.Report(err.Error(), SeverityWarning)
		return fail[models.DirectMessage](err.Error())
	}

	conversationID := form.ConversationID
	if conversationID <= 0 {
		conv, err := s.client.CreateConversation(ctx, form.ReceiverID)
		if err != nil {
			return reportFailure[models.DirectMessage](s.notifier, s.log, err, "failed to create conversation")
		}
		conversationID = conv.ID
		s.SetCurrentConversation(conversationID)
	}

	raw, err := s.client.SendMessage(ctx, conversationID, form.Content, form.MessageType)
	if err != nil {
		return reportFailure[models.DirectMessage](s.notifier, s.log, err, "failed to send message")
	}

	msg := normalize.DirectMessage(raw, conversationID)
	s.PrivateMessages.InsertFront(msg)
	s.RecomputeStats()
	s.notifier.Report("message sent", SeveritySuccess)
	return ok(msg)
}

// MarkAsRead marks the given ids as read in the named collection. The
// local flag flips only after the server confirms each id.
func (s *MessageStore) MarkAsRead(ctx context.Context, kind MessageKind, ids []int64) Status {
	for _, id := range ids {
		var err error
		switch kind {
		case KindPrivate:
			err = s.client.MarkMessageRead(ctx, id)
		default:
			err = s.client.MarkNotificationRead(ctx, id)
		}
		if err != nil {
			return reportFailure[struct{}](s.notifier, s.log, err, "failed to mark as read")
		}

		switch kind {
		case KindPrivate:
			s.PrivateMessages.MutateByID(id, func(m *models.DirectMessage) { m.IsRead = true })
		default:
			s.Notifications.MutateByID(id, func(n *models.Notification) { n.IsRead = true })
		}
	}

	s.RecomputeStats()
	s.notifier.Report("marked as read", SeveritySuccess)
	return done()
}

// MarkAllAsRead marks every notification and private message as read.
func (s *MessageStore) MarkAllAsRead(ctx context.Context) Status {
	if err := s.client.MarkAllNotificationsRead(ctx); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to mark all as read")
	}

	s.Notifications.MutateAll(func(n *models.Notification) { n.IsRead = true })
	s.PrivateMessages.MutateAll(func(m *models.DirectMessage) { m.IsRead = true })
	s.RecomputeStats()
	s.notifier.Report("all messages marked as read", SeveritySuccess)
	return done()
}

// DeleteMessage deletes one message and removes it from the named
// collection only. Removing an id the collection does not hold is a no-op
// that still succeeds.
func (s *MessageStore) DeleteMessage(ctx context.Context, kind MessageKind, id int64) Status {
	if err := s.client.DeleteMessage(ctx, id); err != nil {
		return reportFailure[struct{}](s.notifier, s.log, err, "failed to delete message")
	}

	switch kind {
	case KindPrivate:
		s.PrivateMessages.RemoveByID(id)
	default:
		s.Notifications.RemoveByID(id)
	}
	s.RecomputeStats()
	s.notifier.Report("message deleted", SeveritySuccess)
	return done()
}

// reportFailure translates a transport error into the uniform failure
// result and reports it; errors never propagate past the façade.
func reportFailure[T any](notifier Notifier, log zerolog.Logger, err error, fallback string) Result[T] {
	message := api.ErrorMessage(err, fallback)
	log.Debug().Err(err).Msg(fallback)
	notifier.Report(message, SeverityError)
	return fail[T](message)
}
