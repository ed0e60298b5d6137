package domain

import "time"

// Identity providers a user can authenticate through.
const (
	ProviderLocal     = "local"
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
)

// User represents an identity record. PasswordHash is nil for accounts
// created through an external provider; ProviderID is nil for local
// accounts. A user may migrate from local to a linked provider but never
// back.
type User struct {
	ID            string     `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  *string    `json:"-" db:"password_hash"`
	Name          string     `json:"name" db:"name"`
	Avatar        string     `json:"avatar" db:"avatar"`
	Provider      string     `json:"provider" db:"provider"`
	ProviderID    *string    `json:"-" db:"provider_id"`
	EmailVerified bool       `json:"email_verified" db:"email_verified"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// HasPassword reports whether local credential login is possible.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
