package models

import "time"

// ModeratorRole identifies a moderator's rank within a tieba.
type ModeratorRole string

const (
	RoleOwner     ModeratorRole = "owner"
	RoleAdmin     ModeratorRole = "admin"
	RoleModerator ModeratorRole = "moderator"
)

// Moderator is an actor with a moderation role in a tieba.
type Moderator struct {
	Actor
	Role ModeratorRole `json:"role"`
}

// Tieba is a forum board.
type Tieba struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	DisplayName    string      `json:"display_name"`
	Avatar         string      `json:"avatar"`
	Description    string      `json:"description"`
	MemberCount    int         `json:"member_count"`
	PostCount      int         `json:"post_count"`
	TodayPostCount int         `json:"today_post_count"`
	OnlineCount    int         `json:"online_count"`
	CreateTime     time.Time   `json:"create_time"`
	Category       string      `json:"category"`
	Tags           []string    `json:"tags,omitempty"`
	IsOfficial     bool        `json:"is_official"`
	IsHot          bool        `json:"is_hot"`
	IsJoined       bool        `json:"is_joined"`
	Moderators     []Moderator `json:"moderators,omitempty"`
	Rules          string      `json:"rules,omitempty"`
	Announcement   string      `json:"announcement,omitempty"`
}

// Post is a thread inside a tieba.
type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Author      Actor      `json:"author"`
	TiebaID     int64      `json:"tieba_id"`
	TiebaName   string     `json:"tieba_name"`
	CreateTime  time.Time  `json:"create_time"`
	UpdateTime  time.Time  `json:"update_time"`
	ViewCount   int        `json:"view_count"`
	ReplyCount  int        `json:"reply_count"`
	LikeCount   int        `json:"like_count"`
	IsTop       bool       `json:"is_top"`
	IsEssence   bool       `json:"is_essence"`
	IsLiked     bool       `json:"is_liked"`
	IsCollected bool       `json:"is_collected"`
	Images      []string   `json:"images,omitempty"`
	Videos      []string   `json:"videos,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	LastReply   *PostReply `json:"last_reply,omitempty"`
}

// PostReply is a reply to a post.
type PostReply struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	Author     Actor     `json:"author"`
	CreateTime time.Time `json:"create_time"`
	LikeCount  int       `json:"like_count"`
	ReplyCount int       `json:"reply_count"`
}

// CreatePostForm is the input for creating a post.
type CreatePostForm struct {
	TiebaID int64
	Title   string
	Content string
	Tags    []string
}

// Validate checks the form's local preconditions.
func (f CreatePostForm) Validate() error {
	v := &ValidationErrors{}
	if f.TiebaID <= 0 {
		v.AddMessage("tieba_id", "a tieba is required")
	}
	if f.Title == "" {
		v.AddMessage("title", "a title is required")
	}
	if f.Content == "" {
		v.AddMessage("content", "post content is required")
	}
	return v.Err()
}

// SearchTiebaParams filters a tieba search.
type SearchTiebaParams struct {
	Keyword  string
	Category string
	Page     int
	PageSize int
}
