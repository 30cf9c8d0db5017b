package normalize

import (
	"github.com/tiebago/tieba/internal/api"
	"github.com/tiebago/tieba/internal/models"
)

// Notification maps a wire notification. Unknown categories are preserved
// as-is; the stats computer simply ignores them.
func Notification(raw api.Notification) models.Notification {
	typ := strOr(raw.MessageType, string(models.NotificationSystem))
	return models.Notification{
		ID:          raw.ID,
		Type:        models.NotificationType(typ),
		Title:       strOr(raw.Title, typ+" notification"),
		Content:     str(raw.Content),
		Sender:      SenderActor(raw.Sender),
		TargetID:    num64(raw.TargetID),
		TargetType:  str(raw.TargetType),
		TargetTitle: str(raw.TargetTitle),
		CreateTime:  parseTime(raw.CreatedAt, raw.CreateTime),
		IsRead:      flag(raw.IsRead),
		Link:        strOr(raw.Link, "/"),
	}
}

// DirectMessage maps a wire private message. When the payload omits the
// conversation id the caller's current conversation is used, so the field
// is always set after creation.
func DirectMessage(raw api.DirectMessage, conversationID int64) models.DirectMessage {
	convID := num64(raw.ConversationID)
	if convID == 0 {
		convID = conversationID
	}
	return models.DirectMessage{
		ID:             raw.ID,
		Sender:         Actor(raw.Sender),
		Receiver:       Actor(raw.Receiver),
		Content:        str(raw.Content),
		CreateTime:     parseTime(raw.CreatedAt, raw.CreateTime),
		IsRead:         flag(raw.IsRead),
		ConversationID: convID,
		MessageType:    strOr(raw.MessageType, "text"),
	}
}

// Conversation maps a wire conversation, including its last message when present.
func Conversation(raw api.Conversation) models.Conversation {
	participants := make([]models.Actor, 0, len(raw.Participants))
	for i := range raw.Participants {
		participants = append(participants, Actor(&raw.Participants[i]))
	}

	conv := models.Conversation{
		ID:           raw.ID,
		Participants: participants,
		UnreadCount:  nonNegative(num(raw.UnreadCount)),
		CreateTime:   parseTime(raw.CreatedAt, raw.CreateTime),
		UpdateTime:   parseTime(raw.UpdatedAt, raw.UpdateTime),
	}
	if raw.LastMessage != nil {
		last := DirectMessage(*raw.LastMessage, raw.ID)
		conv.LastMessage = &last
	}
	return conv
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
