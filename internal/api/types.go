package api

// Wire types for backend payloads. Optional fields are pointers so the
// normalizer can distinguish "absent" from zero values, and fields the
// backend has renamed over time carry both spellings (created_at vs
// create_time, is_joined vs is_member).

// Actor is the wire shape of an embedded user summary.
type Actor struct {
	ID       *int64  `json:"id"`
	Username *string `json:"username"`
	Nickname *string `json:"nickname"`
	Avatar   *string `json:"avatar"`
	Level    *int    `json:"level"`
}

// Notification is the wire shape of a system notification.
type Notification struct {
	ID          int64   `json:"id"`
	MessageType *string `json:"message_type"`
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Sender      *Actor  `json:"sender"`
	TargetID    *int64  `json:"target_id"`
	TargetType  *string `json:"target_type"`
	TargetTitle *string `json:"target_title"`
	CreatedAt   *string `json:"created_at"`
	CreateTime  *string `json:"create_time"`
	IsRead      *bool   `json:"is_read"`
	Link        *string `json:"link"`
}

// DirectMessage is the wire shape of a private message.
type DirectMessage struct {
	ID             int64   `json:"id"`
	Sender         *Actor  `json:"sender"`
	Receiver       *Actor  `json:"receiver"`
	Content        *string `json:"content"`
	CreatedAt      *string `json:"created_at"`
	CreateTime     *string `json:"create_time"`
	IsRead         *bool   `json:"is_read"`
	ConversationID *int64  `json:"conversation_id"`
	MessageType    *string `json:"message_type"`
}

// Conversation is the wire shape of a message thread.
type Conversation struct {
	ID           int64          `json:"id"`
	Participants []Actor        `json:"participants"`
	LastMessage  *DirectMessage `json:"last_message"`
	UnreadCount  *int           `json:"unread_count"`
	CreatedAt    *string        `json:"created_at"`
	CreateTime   *string        `json:"create_time"`
	UpdatedAt    *string        `json:"updated_at"`
	UpdateTime   *string        `json:"update_time"`
}

// Moderator is the wire shape of a tieba moderator entry.
type Moderator struct {
	Actor
	Role *string `json:"role"`
}

// Tieba is the wire shape of a forum board.
type Tieba struct {
	ID             int64       `json:"id"`
	Name           *string     `json:"name"`
	DisplayName    *string     `json:"display_name"`
	Avatar         *string     `json:"avatar"`
	Description    *string     `json:"description"`
	MemberCount    *int        `json:"member_count"`
	PostCount      *int        `json:"post_count"`
	TodayPostCount *int        `json:"today_post_count"`
	OnlineCount    *int        `json:"online_count"`
	CreatedAt      *string     `json:"created_at"`
	CreateTime     *string     `json:"create_time"`
	Category       *string     `json:"category_name"`
	CategoryRaw    *string     `json:"category"`
	Tags           []string    `json:"tags"`
	IsOfficial     *bool       `json:"is_official"`
	IsHot          *bool       `json:"is_hot"`
	IsJoined       *bool       `json:"is_joined"`
	IsMember       *bool       `json:"is_member"`
	Moderators     []Moderator `json:"moderators"`
	Rules          *string     `json:"rules"`
	Announcement   *string     `json:"announcement"`
}

// Post is the wire shape of a thread inside a tieba.
type Post struct {
	ID          int64      `json:"id"`
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	Author      *Actor     `json:"author"`
	TiebaID     *int64     `json:"tieba"`
	TiebaName   *string    `json:"tieba_name"`
	CreatedAt   *string    `json:"created_at"`
	CreateTime  *string    `json:"create_time"`
	UpdatedAt   *string    `json:"updated_at"`
	ViewCount   *int       `json:"view_count"`
	ReplyCount  *int       `json:"reply_count"`
	LikeCount   *int       `json:"like_count"`
	IsTop       *bool      `json:"is_top"`
	IsEssence   *bool      `json:"is_essence"`
	IsLiked     *bool      `json:"is_liked"`
	IsFavorited *bool      `json:"is_favorited"`
	IsCollected *bool      `json:"is_collected"`
	Images      []string   `json:"images"`
	Videos      []string   `json:"videos"`
	Tags        []string   `json:"tags"`
	LastReply   *PostReply `json:"last_reply"`
}

// PostReply is the wire shape of a reply.
type PostReply struct {
	ID         int64   `json:"id"`
	Content    *string `json:"content"`
	Author     *Actor  `json:"author"`
	CreatedAt  *string `json:"created_at"`
	CreateTime *string `json:"create_time"`
	LikeCount  *int    `json:"like_count"`
	ReplyCount *int    `json:"reply_count"`
}

// User is the wire shape of the authenticated user's profile.
type User struct {
	ID        int64   `json:"id"`
	Username  *string `json:"username"`
	Nickname  *string `json:"nickname"`
	Avatar    *string `json:"avatar"`
	Level     *int    `json:"level"`
	JoinDate  *string `json:"date_joined"`
	CreatedAt *string `json:"created_at"`
	Email     *string `json:"email"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	Website   *string `json:"website"`
	Followers *int    `json:"followers"`
	Following *int    `json:"following"`
	Posts     *int    `json:"posts"`
	Likes     *int    `json:"likes"`
}

// TokenPair is the wire shape of a JWT login response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
