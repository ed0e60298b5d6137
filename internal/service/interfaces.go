package service

import (
	"context"
	"time"

	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/oauth"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, patch *dto.ProfilePatch) (*dto.UserResponse, error)
	// ValidateAccess checks the blacklist and the signature. Expired
	// tokens surface utils.ErrTokenExpired for the middleware to map.
	ValidateAccess(ctx context.Context, token string) (*domain.AccessClaims, error)
	// IssueTokens mints a token pair and persists the refresh-token
	// row. Used after credential login and OAuth callbacks alike.
	IssueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error)
}

// OAuthService reconciles external identities with local accounts
type OAuthService interface {
	Reconcile(ctx context.Context, provider string, profile *oauth.Profile) (*domain.User, error)
}

// TokenBlacklist records revoked tokens until their natural expiry
type TokenBlacklist interface {
	AddToken(ctx context.Context, token string, expiry time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

// StateStore holds OAuth state tokens between redirect and callback
type StateStore interface {
	Put(ctx context.Context, state string) error
	// Consume reports whether the state was present and removes it, so
	// a state can be redeemed at most once.
	Consume(ctx context.Context, state string) (bool, error)
}
