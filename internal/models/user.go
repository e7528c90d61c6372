package models

import "time"

// User represents a row in the users table.
type User struct {
	UserID          string  `db:"user_id"`
	Name            string  `db:"name"`
	Email           string  `db:"email"`
	PasswordHash    string  `db:"password_hash"`
	IsPlatformAdmin bool    `db:"is_platform_admin"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`

	// Refresh token fields
	RefreshTokenHash       *string    `db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `db:"refresh_token_expiry_time"`
}
