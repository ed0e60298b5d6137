package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/oauth"
	"github.com/rpm-system/rpm-backend/internal/repository"
)

// oauthService implements OAuthService interface
type oauthService struct {
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
}

// NewOAuthService creates a new OAuth reconciliation service
func NewOAuthService(userRepo repository.UserRepository, categoryRepo repository.CategoryRepository) OAuthService {
	return &oauthService{
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
	}
}

// Reconcile maps an external identity onto a local account. The lookup
// order is: existing provider link, then email match, then a fresh
// account. An email match links the provider onto the existing account,
// which from then on authenticates through social login.
func (s *oauthService) Reconcile(ctx context.Context, provider string, profile *oauth.Profile) (*domain.User, error) {
	user, err := s.userRepo.GetByProvider(ctx, provider, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up provider identity: %w", err)
	}

	user, err = s.userRepo.GetByEmail(ctx, profile.Email)
	if err == nil {
		if err := s.userRepo.LinkProvider(ctx, user.ID, provider, profile.ID); err != nil {
			return nil, fmt.Errorf("failed to link provider: %w", err)
		}
		return s.userRepo.GetByID(ctx, user.ID)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	// Provider-verified email, so the account starts verified.
	user = &domain.User{
		Email:         profile.Email,
		Name:          profile.Name,
		Avatar:        profile.Avatar,
		Provider:      provider,
		ProviderID:    &profile.ID,
		EmailVerified: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.categoryRepo.ProvisionDefaults(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to provision categories: %w", err)
	}

	return user, nil
}
