package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpm-system/rpm-backend/internal/apperr"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/repository"
	"github.com/rpm-system/rpm-backend/internal/utils"
)

// authService implements AuthService interface
type authService struct {
	userRepo           repository.UserRepository
	tokenRepo          repository.TokenRepository
	categoryRepo       repository.CategoryRepository
	jwtManager         *utils.JWTManager
	blacklist          TokenBlacklist
	bcryptCost         int
	refreshTokenExpiry time.Duration
	// hashSem bounds concurrent bcrypt work so a burst of signups
	// cannot saturate every CPU.
	hashSem chan struct{}
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	categoryRepo repository.CategoryRepository,
	jwtManager *utils.JWTManager,
	blacklist TokenBlacklist,
	bcryptCost int,
	refreshTokenExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:           userRepo,
		tokenRepo:          tokenRepo,
		categoryRepo:       categoryRepo,
		jwtManager:         jwtManager,
		blacklist:          blacklist,
		bcryptCost:         bcryptCost,
		refreshTokenExpiry: refreshTokenExpiry,
		hashSem:            make(chan struct{}, 4),
	}
}

// Register creates a local account and provisions its default categories
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, apperr.Validation("Email, password, and name are required")
	}

	if !utils.ValidateEmail(req.Email) {
		return nil, apperr.Validation("Invalid email format")
	}

	if !utils.ValidatePassword(req.Password) {
		return nil, apperr.Validation(fmt.Sprintf("Password must be at least %d characters", utils.MinPasswordLength))
	}

	email := utils.SanitizeEmail(req.Email)

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperr.Conflict("Email already registered")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to check user existence: %w", err))
	}

	passwordHash, err := s.hashPassword(ctx, req.Password)
	if err != nil {
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to hash password: %w", err))
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: &passwordHash,
		Name:         req.Name,
		Provider:     domain.ProviderLocal,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to create user: %w", err))
	}

	// A user without their default categories is unusable, so a
	// provisioning failure fails the whole registration.
	if err := s.categoryRepo.ProvisionDefaults(ctx, user.ID); err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}

	return s.authResponse(ctx, user)
}

// Login authenticates a local account
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same message as a wrong password, so responses do not
			// reveal which emails are registered.
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to get user: %w", err))
	}

	if !user.HasPassword() {
		return nil, apperr.Unauthorized("This account uses social login")
	}

	if !utils.CheckPasswordHash(req.Password, *user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	return s.authResponse(ctx, user)
}

// Refresh rotates a refresh token and mints a new pair
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairResponse, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	blacklisted, err := s.blacklist.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to check token blacklist: %w", err))
	}
	if blacklisted {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	tokenHash := hashToken(refreshToken)

	// The ledger lookup enforces both ownership and expiry; a valid
	// signature alone is not enough to refresh.
	if _, err := s.tokenRepo.GetActive(ctx, tokenHash, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to get token: %w", err))
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to get user: %w", err))
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to generate access token: %w", err))
	}

	newRefreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to generate refresh token: %w", err))
	}

	newRow := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(newRefreshToken),
		ExpiresAt: time.Now().Add(s.refreshTokenExpiry),
	}

	// Rotation is transactional: a concurrent refresh with the same
	// token loses the race and gets rejected.
	if err := s.tokenRepo.Rotate(ctx, tokenHash, newRow); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to rotate token: %w", err))
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the presented refresh token. Logout is idempotent;
// unknown or already revoked tokens still succeed.
func (s *authService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	tokenHash := hashToken(refreshToken)

	row, err := s.tokenRepo.GetActive(ctx, tokenHash, userID)
	if err != nil {
		return nil
	}

	if err := s.blacklist.AddToken(ctx, refreshToken, time.Until(row.ExpiresAt)); err != nil {
		// Revocation still holds through the ledger delete below.
		_ = err
	}

	if err := s.tokenRepo.DeleteByTokenHash(ctx, tokenHash); err != nil {
		return apperr.Internal("Internal server error", fmt.Errorf("failed to delete token: %w", err))
	}

	return nil
}

// GetProfile returns the caller's profile
func (s *authService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to get user: %w", err))
	}

	return userResponse(user), nil
}

// UpdateProfile applies the allowed profile fields
func (s *authService) UpdateProfile(ctx context.Context, userID string, patch *dto.ProfilePatch) (*dto.UserResponse, error) {
	user, err := s.userRepo.UpdateProfile(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal("Internal server error", fmt.Errorf("failed to update profile: %w", err))
	}

	return userResponse(user), nil
}

// ValidateAccess validates an access token for the middleware
func (s *authService) ValidateAccess(ctx context.Context, token string) (*domain.AccessClaims, error) {
	blacklisted, err := s.blacklist.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if blacklisted {
		return nil, fmt.Errorf("token is revoked")
	}

	return s.jwtManager.ValidateAccessToken(token)
}

// IssueTokens mints a pair and persists the refresh-token row
func (s *authService) IssueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	row := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.refreshTokenExpiry),
	}

	if err := s.tokenRepo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) authResponse(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	pair, err := s.IssueTokens(ctx, user)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}

	return &dto.AuthResponse{
		User: dto.UserInfo{
			ID:     user.ID,
			Email:  user.Email,
			Name:   user.Name,
			Avatar: user.Avatar,
		},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *authService) hashPassword(ctx context.Context, password string) (string, error) {
	select {
	case s.hashSem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-s.hashSem }()

	return utils.HashPassword(password, s.bcryptCost)
}

func userResponse(user *domain.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Avatar:    user.Avatar,
		Provider:  user.Provider,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// hashToken hashes a token using SHA256 for at-rest storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
