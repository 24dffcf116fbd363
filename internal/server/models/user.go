package models

import "time"

// User is a registered account. PasswordHash never leaves the server; use
// NewUserView to build the public projection.
type User struct {
	ID           string    `db:"id"`
	UserName     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Identity is the resolved caller of a request, decoded from a session token.
type Identity struct {
	ID       string `json:"_id"`
	UserName string `json:"username"`
}

// Identity returns the identity claim carried in tokens issued for u.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, UserName: u.UserName}
}

// UserView is the public-safe projection of a User.
type UserView struct {
	ID       string `json:"_id"`
	UserName string `json:"username"`
}

func NewUserView(u *User) UserView {
	return UserView{ID: u.ID, UserName: u.UserName}
}
