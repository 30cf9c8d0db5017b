package api

import (
	"context"
	"fmt"
)

// PostQuery filters a post list fetch.
type PostQuery struct {
	Page     int
	PageSize int
	TiebaID  int64
	AuthorID int64
	Search   string
	Sort     string
}

// Posts fetches one page of posts.
func (c *Client) Posts(ctx context.Context, q PostQuery) (Page[Post], error) {
	params := pageParams(q.Page, q.PageSize)
	if q.TiebaID > 0 {
		params.Set("tieba", fmt.Sprintf("%d", q.TiebaID))
	}
	if q.AuthorID > 0 {
		params.Set("author", fmt.Sprintf("%d", q.AuthorID))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	var page Page[Post]
	err := c.get(ctx, "/posts/", params, &page)
	return page, err
}

// PostDetail fetches one post by id.
func (c *Client) PostDetail(ctx context.Context, id int64) (Post, error) {
	var post Post
	err := c.get(ctx, fmt.Sprintf("/posts/%d/", id), nil, &post)
	return post, err
}

// CreatePost creates a post in a tieba.
func (c *Client) CreatePost(ctx context.Context, tiebaID int64, title, content string, tags []string) (Post, error) {
	body := map[string]any{
		"tieba":   tiebaID,
		"title":   title,
		"content": content,
	}
	if len(tags) > 0 {
		body["tags"] = tags
	}
	var post Post
	err := c.post(ctx, "/posts/", body, &post)
	return post, err
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/posts/%d/", id))
}

// LikePost likes a post.
func (c *Client) LikePost(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/posts/%d/like/", id), nil, nil)
}

// UnlikePost removes a like.
func (c *Client) UnlikePost(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/posts/%d/unlike/", id), nil, nil)
}

// FavoritePost bookmarks a post.
func (c *Client) FavoritePost(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/posts/%d/favorite/", id), nil, nil)
}

// UnfavoritePost removes a bookmark.
func (c *Client) UnfavoritePost(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/posts/%d/unfavorite/", id), nil, nil)
}

// PostReplies fetches one page of replies to a post.
func (c *Client) PostReplies(ctx context.Context, postID int64, page, pageSize int) (Page[PostReply], error) {
	var out Page[PostReply]
	err := c.get(ctx, fmt.Sprintf("/posts/%d/replies/", postID), pageParams(page, pageSize), &out)
	return out, err
}

// ReplyPost posts a reply, optionally nested under a parent reply.
func (c *Client) ReplyPost(ctx context.Context, postID int64, content string, parentID int64) (PostReply, error) {
	body := map[string]any{"content": content}
	if parentID > 0 {
		body["parent"] = parentID
	}
	var reply PostReply
	err := c.post(ctx, fmt.Sprintf("/posts/%d/replies/", postID), body, &reply)
	return reply, err
}
