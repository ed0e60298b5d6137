package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/oauth"
)

func TestReconcile_NewUser(t *testing.T) {
	users := newFakeUserRepo()
	categories := newFakeCategoryRepo()
	svc := NewOAuthService(users, categories)

	user, err := svc.Reconcile(context.Background(), domain.ProviderGoogle, &oauth.Profile{
		ID:     "g-1",
		Email:  "fresh@gmail.com",
		Name:   "Fresh User",
		Avatar: "https://example.com/a.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "fresh@gmail.com", user.Email)
	assert.Equal(t, domain.ProviderGoogle, user.Provider)
	require.NotNil(t, user.ProviderID)
	assert.Equal(t, "g-1", *user.ProviderID)
	assert.True(t, user.EmailVerified)
	assert.False(t, user.HasPassword())

	// a fresh social account gets its default categories too
	assert.Equal(t, []string{user.ID}, categories.provisioned)
}

func TestReconcile_ExistingProviderLink(t *testing.T) {
	users := newFakeUserRepo()
	categories := newFakeCategoryRepo()
	svc := NewOAuthService(users, categories)

	ctx := context.Background()
	first, err := svc.Reconcile(ctx, domain.ProviderGoogle, &oauth.Profile{
		ID: "g-2", Email: "repeat@gmail.com", Name: "Repeat",
	})
	require.NoError(t, err)

	// same provider identity comes back to the same account even if
	// the profile email changed since
	second, err := svc.Reconcile(ctx, domain.ProviderGoogle, &oauth.Profile{
		ID: "g-2", Email: "renamed@gmail.com", Name: "Repeat",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, categories.provisioned, 1)
}

func TestReconcile_LinksByEmail(t *testing.T) {
	users := newFakeUserRepo()
	categories := newFakeCategoryRepo()
	svc := NewOAuthService(users, categories)

	ctx := context.Background()
	hash := "$2a$10$existinghash"
	local := &domain.User{
		Email:        "linked@example.com",
		PasswordHash: &hash,
		Name:         "Local",
	}
	require.NoError(t, users.Create(ctx, local))

	user, err := svc.Reconcile(ctx, domain.ProviderMicrosoft, &oauth.Profile{
		ID: "ms-7", Email: "linked@example.com", Name: "Linked",
	})
	require.NoError(t, err)

	// the existing account was claimed, not duplicated
	assert.Equal(t, local.ID, user.ID)
	assert.Equal(t, domain.ProviderMicrosoft, user.Provider)
	require.NotNil(t, user.ProviderID)
	assert.Equal(t, "ms-7", *user.ProviderID)

	// no categories were provisioned for an existing account
	assert.Empty(t, categories.provisioned)
}

func TestReconcile_DistinctProvidersDistinctUsers(t *testing.T) {
	users := newFakeUserRepo()
	categories := newFakeCategoryRepo()
	svc := NewOAuthService(users, categories)

	ctx := context.Background()
	a, err := svc.Reconcile(ctx, domain.ProviderGoogle, &oauth.Profile{
		ID: "same-id", Email: "a@example.com", Name: "A",
	})
	require.NoError(t, err)

	// the same provider-side ID under a different provider is a
	// different identity
	b, err := svc.Reconcile(ctx, domain.ProviderMicrosoft, &oauth.Profile{
		ID: "same-id", Email: "b@example.com", Name: "B",
	})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
