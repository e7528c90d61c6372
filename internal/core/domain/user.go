package domain

import "time"

// User represents a user of the application in the domain.
type User struct {
	UserID           string  `json:"userID"` // Primary Key (UUID)
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	PasswordHash     string  `json:"-"`
	IsPlatformAdmin  bool    `json:"isPlatformAdmin"`
	RefreshTokenHash       *string    `json:"-"` // SHA256 hash of the active refresh token
	RefreshTokenExpiryTime *time.Time `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
