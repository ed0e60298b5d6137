package dto

// RegisterRequest represents a registration request. Field presence is
// validated in the service so the error messages stay stable.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries the refresh token presented for rotation
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ProfilePatch is the explicit allow-list of mutable profile fields.
// Nil means "leave unchanged".
type ProfilePatch struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// UserInfo is the public user projection returned with token pairs.
// The password hash is never serialized outward from any endpoint.
type UserInfo struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

// TokenPairResponse is returned by refresh
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserResponse is the profile projection returned by GET /auth/me
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Provider  string `json:"provider"`
	CreatedAt string `json:"created_at"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse represents an error response body
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
