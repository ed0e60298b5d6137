package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Provider == "" {
		user.Provider = domain.ProviderLocal
	}
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByProvider(ctx context.Context, provider, providerID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Provider == provider && u.ProviderID != nil && *u.ProviderID == providerID {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) LinkProvider(ctx context.Context, userID, provider, providerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Provider = provider
	u.ProviderID = &providerID
	return nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, userID string, patch *dto.ProfilePatch) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Avatar != nil {
		u.Avatar = *patch.Avatar
	}
	return u, nil
}

// fakeTokenRepo is an in-memory refresh-token ledger.
type fakeTokenRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{rows: make(map[string]*domain.RefreshToken)}
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *domain.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[token.TokenHash]; ok {
		return repository.ErrDuplicateToken
	}
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	f.rows[token.TokenHash] = token
	return nil
}

func (f *fakeTokenRepo) GetActive(ctx context.Context, tokenHash, userID string) (*domain.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[tokenHash]
	if !ok || row.UserID != userID || time.Now().After(row.ExpiresAt) {
		return nil, repository.ErrNotFound
	}
	return row, nil
}

func (f *fakeTokenRepo) Rotate(ctx context.Context, oldTokenHash string, newToken *domain.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[oldTokenHash]; !ok {
		return fmt.Errorf("token already consumed: %w", repository.ErrNotFound)
	}
	delete(f.rows, oldTokenHash)
	if newToken.ID == "" {
		newToken.ID = uuid.New().String()
	}
	f.rows[newToken.TokenHash] = newToken
	return nil
}

func (f *fakeTokenRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, tokenHash)
	return nil
}

func (f *fakeTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for hash, row := range f.rows {
		if time.Now().After(row.ExpiresAt) {
			delete(f.rows, hash)
			n++
		}
	}
	return n, nil
}

func (f *fakeTokenRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// fakeCategoryRepo records provisioning calls; the planner methods are
// never reached from the auth services.
type fakeCategoryRepo struct {
	mu          sync.Mutex
	provisioned []string
	failNext    bool
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{}
}

func (f *fakeCategoryRepo) ProvisionDefaults(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return fmt.Errorf("provisioning failed")
	}
	f.provisioned = append(f.provisioned, userID)
	return nil
}

func (f *fakeCategoryRepo) List(ctx context.Context, userID string) ([]*domain.Category, error) {
	return nil, nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id, userID string) (*domain.Category, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeCategoryRepo) Exists(ctx context.Context, id, userID string) (bool, error) {
	return false, nil
}

func (f *fakeCategoryRepo) GetDetails(ctx context.Context, categoryID string) (*domain.CategoryDetails, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	return nil
}

func (f *fakeCategoryRepo) UpsertDetails(ctx context.Context, categoryID string, req *dto.CategoryDetailsRequest) (*domain.CategoryDetails, error) {
	return nil, nil
}

func (f *fakeCategoryRepo) SoftDelete(ctx context.Context, id, userID string) error {
	return nil
}

// fakeBlacklist is an in-memory TokenBlacklist.
type fakeBlacklist struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{tokens: make(map[string]bool)}
}

func (f *fakeBlacklist) AddToken(ctx context.Context, token string, expiry time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = true
	return nil
}

func (f *fakeBlacklist) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[token], nil
}
