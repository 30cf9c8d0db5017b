package store

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiebago/tieba/internal/models"
)

func TestGetMessagesFirstPageReplacesAndUpdatesStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat/notifications/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{
			"count": 3,
			"next": "http://example.com/chat/notifications/?page=2",
			"previous": null,
			"results": [
				{"id": 1, "message_type": "reply", "content": "a"},
				{"id": 2, "message_type": "like", "content": "b", "is_read": true}
			]
		}`)
	})
	s := NewMessageStore(newTestClient(t, mux), nil)
	s.Notifications.Replace([]models.Notification{{ID: 99, Type: models.NotificationSystem}})

	res := s.GetMessages(context.Background(), false, 1, 20)

	require.True(t, res.OK)
	require.True(t, res.HasMore)
	require.Len(t, res.Data, 2)
	require.Equal(t, 2, s.Notifications.Len())
	require.Equal(t, 1, s.Stats().UnreadReply)
	require.Equal(t, 0, s.Stats().UnreadLike)
	require.Equal(t, 1, s.Stats().UnreadCount)
}

func TestGetMessagesLaterPageAppends(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat/notifications/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"count": 3, "next": null, "previous": "p1", "results": [{"id": 3, "message_type": "system"}]}`)
	})
	s := NewMessageStore(newTestClient(t, mux), nil)
	s.Notifications.ApplyPage(1, []models.Notification{{ID: 1}, {ID: 2}}, true)

	res := s.GetMessages(context.Background(), false, 2, 20)

	require.True(t, res.OK)
	require.False(t, res.HasMore)
	require.Equal(t, 3, s.Notifications.Len())
	require.False(t, s.Notifications.HasMore())
}

func TestGetMessagesUnreadOnlySendsFilter(t *testing.T) {
	var query string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat/notifications/", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeJSON(t, w, `{"count": 0, "next": null, "previous": null, "results": []}`)
	})
	s := NewMessageStore(newTestClient(t, mux), nil)

	res := s.GetMessages(context.Background(), true, 1, 10)

	require.True(t, res.OK)
	require.Contains(t, query, "unread_only=true")
	require.Contains(t, query, "page=1")
	require.Contains(t, query, "page_size=10")
}

func TestGetMessagesFailureKeepsState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat/notifications/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(t, w, `{"detail": "backend exploded"}`)
	})
	notifier := &recordNotifier{}
	s := NewMessageStore(newTestClient(t, mux), notifier)
	s.Notifications.Replace([]models.Notification{{ID: 1, Type: models.NotificationSystem}})
	s.RecomputeStats()

	res := s.GetMessages(context.Background(), false, 1, 20)

	require.False(t, res.OK)
	require.Equal(t, "backend exploded", res.Message)
	require.Equal(t, "backend exploded", notifier.lastMessage())
	require.Equal(t, 1, s.Notifications.Len())
	require.Equal(t, 1, s.Stats().UnreadCount)
}

func TestGetPrivateMessagesRequiresConversation(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { called = true })
	s := NewMessageStore(newTestClient(t, mux), nil)

	res := s.GetPrivateMessages(context.Background(), 0, 1, 20)

	require.False(t, res.OK)
	require.Equal(t, "select a conversation first", res.Message)
	require.False(t, called)
}

func TestGetPrivateMessagesUsesCurrentConversation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat/conversations/7/messages/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"count": 1, "next": null, "previous": null, "results": [{"id": 5, "content": "hi"}]}`)
	})
	s := NewMessageStore(newTestClient(t, mux), nil)
	s.SetCurrentConversation(7)

	res := s.GetPrivateMessages(context.Background(), 0, 1, 20)

	require.True(t, res.OK)
	require.Len(t, res.Data, 1)
	require.Equal(t, int64(7), res.Data[0].ConversationID)
	require.Equal(t, 1, s.Stats().UnreadPrivate)
}

func TestSendPrivateMessageCreatesConversationWhenMissing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/conversations/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"id": 31, "participants": []}`)
	})
	mux.HandleFunc("POST /chat/conversations/31/messages/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"id": 100, "content": "hello", "is_read": true}`)
	})
	notifier := &recordNotifier{}
	s := NewMessageStore(newTestClient(t, mux), notifier)

	res := s.SendPrivateMessage(context.Background(), models.SendMessageForm{
		ReceiverID: 9,
		Content:    "hello",
	})

	require.True(t, res.OK)
	require.Equal(t, int64(31), res.Data.ConversationID)
	require.Equal(t, int64(31), s.CurrentConversation())
	require.Equal(t, 1, s.PrivateMessages.Len())
	require.Equal(t, int64(100), s.PrivateMessages.Items()[0].ID)
	require.Equal(t, "message sent", notifier.lastMessage())
}

func TestSendPrivateMessageValidatesLocally(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { called = true })
	s := NewMessageStore(newTestClient(t, mux), nil)

	res := s.SendPrivateMessage(context.Background(), models.SendMessageForm{ConversationID: 1})

	require.False(t, res.OK)
	require.NotEmpty(t, res.Message)
	require.False(t, called)
	require.Equal(t, 0, s.PrivateMessages.Len())
}

func TestSendPrivateMessageFailureLeavesCollection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/conversations/5/messages/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(t, w, `{"message": "content rejected"}`)
	})
	s := NewMessageStore(newTestClient(t, mux), nil)

	res := s.SendPrivateMessage(context.Background(), models.SendMessageForm{
		ConversationID: 5,
		Content:        "spam",
	})

	require.False(t, res.OK)
	require.Equal(t, "content rejected", res.Message)
	require.Equal(t, 0, s.PrivateMessages.Len())
}

func TestMarkAsReadFlipsNotificationsAndStats(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/notifications/1/read/", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("POST /chat/notifications/2/read/", func(w http.ResponseWriter, r *http.Request) {})
	s := NewMessageStore(newTestClient(t, mux), nil)
	s.Notifications.Replace([]models.Notification{
		{ID: 1, Type: models.NotificationReply},
		{ID: 2, Type: models.NotificationLike},
		{ID: 3, Type: models.NotificationSystem},
	})
	s.RecomputeStats()
	require.Equal(t, 3, s.Stats().UnreadCount)

	res := s.MarkAsRead(context.Background(), KindNotification, []int64{1, 2})

	require.True(t, res.OK)
	items := s.Notifications.Items()
	require.True(t, items[0].IsRead)
	require.True(t, items[1].IsRead)
	require.False(t, items[2].IsRead)
	require.Equal(t, 1, s.Stats().UnreadCount)
	require.Equal(t, 1, s.Stats().UnreadSystem)
}

func TestMarkAsReadScopedToKind(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/messages/1/read/", func(w http.ResponseWriter, r *http.Request) {})
	s := NewMessageStore(newTestClient(t, mux), nil)
	s.Notifications.Replace([]models.Notification{{ID: 1, Type: models.NotificationSystem}})
	s.PrivateMessages.Replace([]models.DirectMessage{{ID: 1}})
	s.RecomputeStats()

	res := s.MarkAsRead(context.Background(), KindPrivate, []int64{1})

	require.True(t, res.OK)
	require.True(t, s.PrivateMessages.Items()[0].IsRead)
	require.False(t, s.Notifications.Items()[0].IsRead)
	require.Equal(t, 0, s.Stats().UnreadPrivate)
	require.Equal(t, 1, s.Stats().UnreadSystem)
}

func TestMarkAsReadRemoteFailureLeavesFlags(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/notifications/1/read/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		writeJSON(t, w, `{"detail": "not yours"}`)
	})
	s := NewMessageStore(newTestClient(t, mux), nil)
	s.Notifications.Replace([]models.Notification{{ID: 1, Type: models.NotificationReply}})
	s.RecomputeStats()

	res := s.MarkAsRead(context.Background(), KindNotification, []int64{1})

	require.False(t, res.OK)
	require.Equal(t, "not yours", res.Message)
	require.False(t, s.Notifications.Items()[0].IsRead)
	require.Equal(t, 1, s.Stats().UnreadCount)
}

func TestMarkAllAsRead(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/notifications/mark-all-read/", func(w http.ResponseWriter, r *http.Request) {})
	s := NewMessageStore(newTestClient(t, mux), nil)
	s.Notifications.Replace([]models.Notification{
		{ID: 1, Type: models.NotificationReply},
		{ID: 2, Type: models.NotificationLike},
	})
	s.PrivateMessages.Replace([]models.DirectMessage{{ID: 3}})
	s.RecomputeStats()

	res := s.MarkAllAsRead(context.Background())

	require.True(t, res.OK)
	require.Equal(t, models.MessageStats{}, s.Stats())
	for _, n := range s.Notifications.Items() {
		require.True(t, n.IsRead)
	}
	require.True(t, s.PrivateMessages.Items()[0].IsRead)
}

func TestDeleteMessageScopedToKind(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /chat/messages/4/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s := NewMessageStore(newTestClient(t, mux), nil)
	s.Notifications.Replace([]models.Notification{{ID: 4, Type: models.NotificationSystem}})
	s.PrivateMessages.Replace([]models.DirectMessage{{ID: 4}})
	s.RecomputeStats()

	res := s.DeleteMessage(context.Background(), KindPrivate, 4)

	require.True(t, res.OK)
	require.Equal(t, 0, s.PrivateMessages.Len())
	require.Equal(t, 1, s.Notifications.Len())
	require.Equal(t, 0, s.Stats().UnreadPrivate)
	require.Equal(t, 1, s.Stats().UnreadSystem)
}

func TestDeleteMessageAbsentIDStillSucceeds(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /chat/messages/9/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s := NewMessageStore(newTestClient(t, mux), nil)

	res := s.DeleteMessage(context.Background(), KindNotification, 9)
	require.True(t, res.OK)
}

func TestGetConversations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /chat/conversations/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"count": 1, "next": null, "previous": null, "results": [
			{"id": 8, "participants": [{"id": 1, "username": "u"}], "unread_count": 2}
		]}`)
	})
	s := NewMessageStore(newTestClient(t, mux), nil)

	res := s.GetConversations(context.Background())

	require.True(t, res.OK)
	require.Len(t, res.Data, 1)
	require.Equal(t, int64(8), res.Data[0].ID)
	require.Equal(t, 2, res.Data[0].UnreadCount)
}
