package api

import (
	"context"
	"fmt"
)

// NotificationQuery filters a notification page fetch.
type NotificationQuery struct {
	Page       int
	PageSize   int
	UnreadOnly bool
}

// Notifications fetches one page of system notifications.
func (c *Client) Notifications(ctx context.Context, q NotificationQuery) (Page[Notification], error) {
	params := pageParams(q.Page, q.PageSize)
	if q.UnreadOnly {
		params.Set("unread_only", "true")
	}
	var page Page[Notification]
	err := c.get(ctx, "/chat/notifications/", params, &page)
	return page, err
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/chat/notifications/%d/read/", id), nil, nil)
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.post(ctx, "/chat/notifications/mark-all-read/", nil, nil)
}

// Conversations fetches one page of conversations.
func (c *Client) Conversations(ctx context.Context, page, pageSize int) (Page[Conversation], error) {
	var out Page[Conversation]
	err := c.get(ctx, "/chat/conversations/", pageParams(page, pageSize), &out)
	return out, err
}

// CreateConversation opens a conversation with the given participant.
func (c *Client) CreateConversation(ctx context.Context, participantID int64) (Conversation, error) {
	var conv Conversation
	err := c.post(ctx, "/chat/conversations/", map[string]any{
		"participants": []int64{participantID},
	}, &conv)
	return conv, err
}

// ConversationMessages fetches one page of messages in a conversation.
func (c *Client) ConversationMessages(ctx context.Context, conversationID int64, page, pageSize int) (Page[DirectMessage], error) {
	var out Page[DirectMessage]
	path := fmt.Sprintf("/chat/conversations/%d/messages/", conversationID)
	err := c.get(ctx, path, pageParams(page, pageSize), &out)
	return out, err
}

// SendMessage posts a message into a conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID int64, content, messageType string) (DirectMessage, error) {
	if messageType == "" {
		messageType = "text"
	}
	var msg DirectMessage
	path := fmt.Sprintf("/chat/conversations/%d/messages/", conversationID)
	err := c.post(ctx, path, map[string]string{
		"content":      content,
		"message_type": messageType,
	}, &msg)
	return msg, err
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/chat/messages/%d/", id))
}

// MarkMessageRead marks one direct message as read.
func (c *Client) MarkMessageRead(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/chat/messages/%d/read/", id), nil, nil)
}
