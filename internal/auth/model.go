package auth

import "time"

// Admin is an operator account. PasswordHash is a bcrypt hash and never
// leaves the package.
type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"login"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a logged-in admin's bearer token and its expiry.
type Session struct {
	Token     string    `json:"token"`
	AdminID   int64     `json:"-"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
