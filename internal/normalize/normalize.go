// Package normalize converts wire payloads into canonical view models.
// Every function tolerates missing optional fields by substituting a
// documented default; none of them validates business rules or fails.
package normalize

import (
	"strings"
	"time"

	"github.com/tiebago/tieba/internal/api"
	"github.com/tiebago/tieba/internal/models"
)

// SystemName is the placeholder identity used when a notification has no sender.
const SystemName = "system"

// Accepted server timestamp layouts, most specific first.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(candidates ...*string) time.Time {
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		value := strings.TrimSpace(*candidate)
		if value == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func strOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func num(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func num64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func flag(v *bool) bool {
	return v != nil && *v
}

func levelOr1(v *int) int {
	if v == nil || *v <= 0 {
		return 1
	}
	return *v
}

// Actor maps an embedded user summary. Missing avatar becomes "" and a
// missing or non-positive level becomes 1.
func Actor(raw *api.Actor) models.Actor {
	if raw == nil {
		return models.Actor{Level: 1}
	}
	return models.Actor{
		ID:       num64(raw.ID),
		Username: str(raw.Username),
		Nickname: str(raw.Nickname),
		Avatar:   str(raw.Avatar),
		Level:    levelOr1(raw.Level),
	}
}

// SenderActor maps a notification sender, substituting the system identity
// when the sender is absent or nameless.
func SenderActor(raw *api.Actor) models.Actor {
	actor := Actor(raw)
	if actor.Username == "" {
		actor.Username = SystemName
	}
	if actor.Nickname == "" {
		actor.Nickname = SystemName
	}
	return actor
}
