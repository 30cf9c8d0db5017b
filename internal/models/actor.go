// Package models defines the canonical view models the client works with
// after server payloads have been normalized.
package models

// Actor is the minimal user identity embedded in messages and posts.
type Actor struct {
	// ID is the numeric user id.
	ID int64 `json:"id"`

	// Username is the login name.
	Username string `json:"username"`

	// Nickname is the display name shown in the UI.
	Nickname string `json:"nickname"`

	// Avatar is the avatar URL. Empty when the user has none.
	Avatar string `json:"avatar"`

	// Level is the forum level, starting at 1.
	Level int `json:"level"`
}

// IsZero reports whether the actor carries no identity at all.
func (a Actor) IsZero() bool {
	return a.ID == 0 && a.Username == "" && a.Nickname == ""
}

// DisplayName returns the nickname, falling back to the username.
func (a Actor) DisplayName() string {
	if a.Nickname != "" {
		return a.Nickname
	}
	return a.Username
}
