package api

import (
	"context"
	"fmt"
)

// Login exchanges credentials for a JWT token pair.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var pair TokenPair
	err := c.post(ctx, "/auth/login/", map[string]string{
		"username": username,
		"password": password,
	}, &pair)
	return pair, err
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password, email, nickname string) (User, error) {
	body := map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	}
	if nickname != "" {
		body["nickname"] = nickname
	}
	var user User
	err := c.post(ctx, "/auth/register/", body, &user)
	return user, err
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (TokenPair, error) {
	var pair TokenPair
	err := c.post(ctx, "/auth/refresh/", map[string]string{"refresh": refresh}, &pair)
	return pair, err
}

// UserInfo fetches the authenticated user's profile.
func (c *Client) UserInfo(ctx context.Context) (User, error) {
	var user User
	err := c.get(ctx, "/auth/user/", nil, &user)
	return user, err
}

// Logout invalidates the session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout/", nil, nil)
}

// ChangePassword updates the account password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.post(ctx, "/auth/change-password/", map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}, nil)
}

// UpdateUser patches profile fields for the given user id.
func (c *Client) UpdateUser(ctx context.Context, userID int64, fields map[string]any) (User, error) {
	var user User
	err := c.put(ctx, fmt.Sprintf("/users/%d/", userID), fields, &user)
	return user, err
}
