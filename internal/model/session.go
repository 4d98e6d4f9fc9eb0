package model

import "time"

// Session is a server-side login record. It holds the user id only; the user
// itself is reloaded on every request.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}
