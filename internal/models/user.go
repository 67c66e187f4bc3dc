package models

import (
	"strings"
	"time"
)

// User represents an account that owns budget lines
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    int64  `json:"created_at"`
}

// Created returns the creation time of the user.
func (u User) Created() time.Time {
	return time.Unix(u.CreatedAt, 0).UTC()
}

// HasUsername reports whether the user's name matches name case-insensitively.
func (u User) HasUsername(name string) bool {
	return strings.EqualFold(u.Username, name)
}
