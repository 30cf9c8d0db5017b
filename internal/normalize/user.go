package normalize

import (
	"github.com/tiebago/tieba/internal/api"
	"github.com/tiebago/tieba/internal/models"
)

// User maps the authenticated user's profile. The nickname falls back to
// the username so the UI never renders an empty identity.
func User(raw api.User) models.User {
	username := str(raw.Username)
	return models.User{
		ID:        raw.ID,
		Username:  username,
		Nickname:  strOr(raw.Nickname, username),
		Avatar:    str(raw.Avatar),
		Level:     levelOr1(raw.Level),
		JoinDate:  parseTime(raw.JoinDate, raw.CreatedAt),
		Email:     str(raw.Email),
		Bio:       str(raw.Bio),
		Location:  str(raw.Location),
		Website:   str(raw.Website),
		Followers: num(raw.Followers),
		Following: num(raw.Following),
		Posts:     num(raw.Posts),
		Likes:     num(raw.Likes),
	}
}
