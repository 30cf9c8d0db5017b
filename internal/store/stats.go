package store

import "github.com/tiebago/tieba/internal/models"

// ComputeStats derives the unread counters from the current notification
// and direct-message collections. It is pure and idempotent: the same
// inputs always yield the same output, and the total always equals the
// sum of the six category counters. Notifications with categories outside
// the six known ones are not counted.
func ComputeStats(notifications []models.Notification, messages []models.DirectMessage) models.MessageStats {
	var stats models.MessageStats

	for _, n := range notifications {
		if n.IsRead {
			continue
		}
		switch n.Type {
		case models.NotificationSystem:
			stats.UnreadSystem++
		case models.NotificationReply:
			stats.UnreadReply++
		case models.NotificationLike:
			stats.UnreadLike++
		case models.NotificationFollow:
			stats.UnreadFollow++
		case models.NotificationMention:
			stats.UnreadMention++
		case models.NotificationPrivate:
			stats.UnreadPrivate++
		}
	}

	for _, m := range messages {
		if !m.IsRead {
			stats.UnreadPrivate++
		}
	}

	stats.UnreadCount = stats.UnreadSystem + stats.UnreadReply + stats.UnreadLike +
		stats.UnreadFollow + stats.UnreadMention + stats.UnreadPrivate
	return stats
}
