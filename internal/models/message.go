package models

import "time"

// NotificationType categorizes a notification.
type NotificationType string

const (
	NotificationSystem  NotificationType = "system"
	NotificationReply   NotificationType = "reply"
	NotificationLike    NotificationType = "like"
	NotificationFollow  NotificationType = "follow"
	NotificationMention NotificationType = "mention"
	NotificationPrivate NotificationType = "private"
)

// KnownNotificationTypes lists the six categories the stats computer counts.
// Unknown server values are preserved on the record but not aggregated.
var KnownNotificationTypes = []NotificationType{
	NotificationSystem,
	NotificationReply,
	NotificationLike,
	NotificationFollow,
	NotificationMention,
	NotificationPrivate,
}

// Notification is a system-generated, categorized alert directed at the user.
type Notification struct {
	ID          int64            `json:"id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Sender      Actor            `json:"sender"`
	TargetID    int64            `json:"target_id,omitempty"`
	TargetType  string           `json:"target_type,omitempty"`
	TargetTitle string           `json:"target_title,omitempty"`
	CreateTime  time.Time        `json:"create_time"`
	IsRead      bool             `json:"is_read"`
	Link        string           `json:"link,omitempty"`
}

// DirectMessage is a private user-to-user message within a conversation.
type DirectMessage struct {
	ID             int64     `json:"id"`
	Sender         Actor     `json:"sender"`
	Receiver       Actor     `json:"receiver"`
	Content        string    `json:"content"`
	CreateTime     time.Time `json:"create_time"`
	IsRead         bool      `json:"is_read"`
	ConversationID int64     `json:"conversation_id"`
	MessageType    string    `json:"message_type"`
}

// Conversation groups direct messages between a set of participants.
type Conversation struct {
	ID           int64          `json:"id"`
	Participants []Actor        `json:"participants"`
	LastMessage  *DirectMessage `json:"last_message,omitempty"`
	UnreadCount  int            `json:"unread_count"`
	CreateTime   time.Time      `json:"create_time"`
	UpdateTime   time.Time      `json:"update_time"`
}

// Peer returns the participant other than the given user, if any.
func (c Conversation) Peer(selfID int64) Actor {
	for _, p := range c.Participants {
		if p.ID != selfID {
			return p
		}
	}
	if len(c.Participants) > 0 {
		return c.Participants[0]
	}
	return Actor{}
}

// MessageStats holds the derived unread counters. It is always recomputed
// from the notification and direct-message collections, never mutated
// independently; UnreadCount equals the sum of the six category fields.
type MessageStats struct {
	UnreadCount   int `json:"unread_count"`
	UnreadSystem  int `json:"unread_system"`
	UnreadReply   int `json:"unread_reply"`
	UnreadLike    int `json:"unread_like"`
	UnreadFollow  int `json:"unread_follow"`
	UnreadMention int `json:"unread_mention"`
	UnreadPrivate int `json:"unread_private"`
}

// SendMessageForm is the input for sending a direct message.
type SendMessageForm struct {
	ReceiverID     int64
	ConversationID int64
	Content        string
	MessageType    string
}

// Validate checks the form's local preconditions.
func (f SendMessageForm) Validate() error {
	v := &ValidationErrors{}
	if f.ReceiverID <= 0 && f.ConversationID <= 0 {
		v.AddMessage("receiver_id", "a receiver or conversation is required")
	}
	if f.Content == "" {
		v.AddMessage("content", "message content is required")
	}
	return v.Err()
}
