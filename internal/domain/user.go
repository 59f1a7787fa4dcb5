// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"time"
)

const MaxUsernameLen = 36

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

// ConnectionID is the transport-assigned identifier of a live connection.
type ConnectionID string

// User is the presence record of one live connection.
type User struct {
	ID       ConnectionID `json:"id"`
	Username string       `json:"username"`
	Room     RoomName     `json:"room"`
	JoinedAt time.Time    `json:"joinedAt"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id ConnectionID, username string, room RoomName) (*User, error) {
	if len(username) == 0 {
		return nil, ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	return &User{ID: id, Username: username, Room: room, JoinedAt: time.Now().UTC()}, nil
}

// Profile is the public view of a user (no mutable room field).
type Profile struct {
	ID       ConnectionID `json:"id"`
	Username string       `json:"username"`
	JoinedAt time.Time    `json:"joinedAt"`
}

func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Username: u.Username, JoinedAt: u.JoinedAt}
}
