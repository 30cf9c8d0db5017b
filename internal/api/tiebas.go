package api

import (
	"context"
	"fmt"
)

// TiebaQuery filters a tieba list fetch.
type TiebaQuery struct {
	Page     int
	PageSize int
	Category string
	Search   string
	Sort     string
}

// Tiebas fetches one page of tiebas.
func (c *Client) Tiebas(ctx context.Context, q TiebaQuery) (Page[Tieba], error) {
	params := pageParams(q.Page, q.PageSize)
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	var page Page[Tieba]
	err := c.get(ctx, "/tiebas/", params, &page)
	return page, err
}

// TiebaDetail fetches one tieba by id.
func (c *Client) TiebaDetail(ctx context.Context, id int64) (Tieba, error) {
	var tieba Tieba
	err := c.get(ctx, fmt.Sprintf("/tiebas/%d/", id), nil, &tieba)
	return tieba, err
}

// JoinTieba joins the given tieba.
func (c *Client) JoinTieba(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/tiebas/%d/join/", id), nil, nil)
}

// LeaveTieba leaves the given tieba.
func (c *Client) LeaveTieba(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/tiebas/%d/leave/", id), nil, nil)
}

// FollowTieba follows the given tieba without joining.
func (c *Client) FollowTieba(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/tiebas/%d/follow/", id), nil, nil)
}

// UnfollowTieba removes a follow.
func (c *Client) UnfollowTieba(ctx context.Context, id int64) error {
	return c.post(ctx, fmt.Sprintf("/tiebas/%d/unfollow/", id), nil, nil)
}
