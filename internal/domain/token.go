package domain

import "time"

// RefreshToken is a capability record granting one token refresh. Only a
// SHA-256 hash of the token is stored; the row is deleted exactly once,
// on rotation or logout. Expired rows persist until the sweeper or a
// rotation attempt removes them.
type RefreshToken struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TokenPair is the access/refresh pair handed to a client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessClaims is the decoded access-token claim set. The server keeps no
// bookkeeping for access tokens beyond signature and expiry validation.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"`
	Iat    int64  `json:"iat"`
}
