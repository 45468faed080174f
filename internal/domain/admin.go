package domain

import "time"

// AdminUser is an account allowed to sign in to the management API.
type AdminUser struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
