package auth

import "time"

// Account represents a registered user account.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
