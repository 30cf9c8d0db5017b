package normalize

import (
	"github.com/tiebago/tieba/internal/api"
	"github.com/tiebago/tieba/internal/models"
)

// Tieba maps a wire tieba. The display name falls back to the internal
// name, and membership tolerates both is_joined and the older is_member.
func Tieba(raw api.Tieba) models.Tieba {
	name := str(raw.Name)

	moderators := make([]models.Moderator, 0, len(raw.Moderators))
	for i := range raw.Moderators {
		m := raw.Moderators[i]
		moderators = append(moderators, models.Moderator{
			Actor: Actor(&m.Actor),
			Role:  models.ModeratorRole(strOr(m.Role, string(models.RoleModerator))),
		})
	}
	if len(moderators) == 0 {
		moderators = nil
	}

	return models.Tieba{
		ID:             raw.ID,
		Name:           name,
		DisplayName:    strOr(raw.DisplayName, name),
		Avatar:         str(raw.Avatar),
		Description:    str(raw.Description),
		MemberCount:    num(raw.MemberCount),
		PostCount:      num(raw.PostCount),
		TodayPostCount: num(raw.TodayPostCount),
		OnlineCount:    num(raw.OnlineCount),
		CreateTime:     parseTime(raw.CreatedAt, raw.CreateTime),
		Category:       strOr(raw.Category, str(raw.CategoryRaw)),
		Tags:           raw.Tags,
		IsOfficial:     flag(raw.IsOfficial),
		IsHot:          flag(raw.IsHot),
		IsJoined:       flag(raw.IsJoined) || flag(raw.IsMember),
		Moderators:     moderators,
		Rules:          str(raw.Rules),
		Announcement:   str(raw.Announcement),
	}
}

// Post maps a wire post. Collected tolerates both is_collected and the
// backend's is_favorited spelling.
func Post(raw api.Post) models.Post {
	post := models.Post{
		ID:          raw.ID,
		Title:       str(raw.Title),
		Content:     str(raw.Content),
		Author:      Actor(raw.Author),
		TiebaID:     num64(raw.TiebaID),
		TiebaName:   str(raw.TiebaName),
		CreateTime:  parseTime(raw.CreatedAt, raw.CreateTime),
		UpdateTime:  parseTime(raw.UpdatedAt, raw.CreateTime, raw.CreatedAt),
		ViewCount:   num(raw.ViewCount),
		ReplyCount:  num(raw.ReplyCount),
		LikeCount:   num(raw.LikeCount),
		IsTop:       flag(raw.IsTop),
		IsEssence:   flag(raw.IsEssence),
		IsLiked:     flag(raw.IsLiked),
		IsCollected: flag(raw.IsCollected) || flag(raw.IsFavorited),
		Images:      raw.Images,
		Videos:      raw.Videos,
		Tags:        raw.Tags,
	}
	if raw.LastReply != nil {
		reply := PostReply(*raw.LastReply)
		post.LastReply = &reply
	}
	return post
}

// PostReply maps a wire reply.
func PostReply(raw api.PostReply) models.PostReply {
	return models.PostReply{
		ID:         raw.ID,
		Content:    str(raw.Content),
		Author:     Actor(raw.Author),
		CreateTime: parseTime(raw.CreatedAt, raw.CreateTime),
		LikeCount:  num(raw.LikeCount),
		ReplyCount: num(raw.ReplyCount),
	}
}
