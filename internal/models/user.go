package models

import "time"

// User is the logged-in user's profile.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	Avatar    string    `json:"avatar"`
	Level     int       `json:"level"`
	JoinDate  time.Time `json:"join_date"`
	Email     string    `json:"email,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Location  string    `json:"location,omitempty"`
	Website   string    `json:"website,omitempty"`
	Followers int       `json:"followers"`
	Following int       `json:"following"`
	Posts     int       `json:"posts"`
	Likes     int       `json:"likes"`
}

// Actor returns the embedded identity summary for this user.
func (u User) Actor() Actor {
	return Actor{
		ID:       u.ID,
		Username: u.Username,
		Nickname: u.Nickname,
		Avatar:   u.Avatar,
		Level:    u.Level,
	}
}

// LoginForm is the input for authentication.
type LoginForm struct {
	Username string
	Password string
}

// Validate checks the form's local preconditions.
func (f LoginForm) Validate() error {
	v := &ValidationErrors{}
	if f.Username == "" {
		v.AddMessage("username", "username is required")
	}
	if f.Password == "" {
		v.AddMessage("password", "password is required")
	}
	return v.Err()
}

// RegisterForm is the input for account creation.
type RegisterForm struct {
	Username string
	Password string
	Email    string
	Nickname string
}

// Validate checks the form's local preconditions.
func (f RegisterForm) Validate() error {
	v := &ValidationErrors{}
	if f.Username == "" {
		v.AddMessage("username", "username is required")
	}
	if f.Password == "" {
		v.AddMessage("password", "password is required")
	}
	if f.Email == "" {
		v.AddMessage("email", "email is required")
	}
	return v.Err()
}
