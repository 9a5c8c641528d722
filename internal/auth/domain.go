package auth

import "time"

// User represents an account that can sign in.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsActive     bool
	IsSuperuser  bool
	CreatedAt    time.Time
}
