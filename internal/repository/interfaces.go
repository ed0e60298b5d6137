package repository

import (
	"context"

	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByProvider(ctx context.Context, provider, providerID string) (*domain.User, error)
	LinkProvider(ctx context.Context, userID, provider, providerID string) error
	UpdateProfile(ctx context.Context, userID string, patch *dto.ProfilePatch) (*domain.User, error)
}

// TokenRepository defines methods for the refresh-token ledger
type TokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	// GetActive returns the row matching hash and user whose expiry is in
	// the future; expired or unknown tokens yield ErrNotFound.
	GetActive(ctx context.Context, tokenHash, userID string) (*domain.RefreshToken, error)
	// Rotate deletes the presented row and inserts its replacement in a
	// single transaction.
	Rotate(ctx context.Context, oldTokenHash string, newToken *domain.RefreshToken) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// CategoryRepository defines methods for category operations
type CategoryRepository interface {
	ProvisionDefaults(ctx context.Context, userID string) error
	List(ctx context.Context, userID string) ([]*domain.Category, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Category, error)
	Exists(ctx context.Context, id, userID string) (bool, error)
	GetDetails(ctx context.Context, categoryID string) (*domain.CategoryDetails, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	UpsertDetails(ctx context.Context, categoryID string, req *dto.CategoryDetailsRequest) (*domain.CategoryDetails, error)
	SoftDelete(ctx context.Context, id, userID string) error
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	CategoryID string
	Starred    bool
}

// ProjectRepository defines methods for project operations
type ProjectRepository interface {
	List(ctx context.Context, userID string, filter ProjectFilter) ([]*domain.Project, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Project, error)
	Exists(ctx context.Context, id, userID string) (bool, error)
	Create(ctx context.Context, project *domain.Project) error
	Patch(ctx context.Context, id, userID string, patch *dto.ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id, userID string) error
	ListInspiration(ctx context.Context, projectID string) ([]*domain.InspirationItem, error)
}

// ActionFilter narrows action listings.
type ActionFilter struct {
	CategoryID string
	ProjectID  string
	BlockID    string
	Starred    bool
	ThisWeek   bool
	Completed  *bool
}

// ActionRepository defines methods for action operations
type ActionRepository interface {
	List(ctx context.Context, userID string, filter ActionFilter) ([]*domain.Action, error)
	ListByBlock(ctx context.Context, blockID string) ([]*domain.Action, error)
	ListRange(ctx context.Context, userID, startDate, endDate string) ([]*domain.Action, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Action, error)
	Create(ctx context.Context, userID string, req *dto.CreateActionRequest) (*domain.Action, error)
	Patch(ctx context.Context, id, userID string, patch *dto.ActionPatch) (*domain.Action, error)
	Duplicate(ctx context.Context, id, userID string) (*domain.Action, error)
	Delete(ctx context.Context, id, userID string) error
}

// BlockFilter narrows block listings.
type BlockFilter struct {
	CategoryID string
	ProjectID  string
}

// BlockRepository defines methods for RPM block operations
type BlockRepository interface {
	List(ctx context.Context, userID string, filter BlockFilter) ([]*domain.Block, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Block, error)
	Create(ctx context.Context, userID string, req *dto.CreateBlockRequest) (*domain.Block, error)
	Patch(ctx context.Context, id, userID string, patch *dto.BlockPatch) (*domain.Block, error)
	// Delete detaches the block's actions before removing the block.
	Delete(ctx context.Context, id, userID string) error
}

// KeyResultRepository defines methods for key result operations.
// Ownership is enforced through the project join.
type KeyResultRepository interface {
	ListByProject(ctx context.Context, projectID string) ([]*domain.KeyResult, error)
	Create(ctx context.Context, req *dto.CreateKeyResultRequest) (*domain.KeyResult, error)
	Patch(ctx context.Context, id, userID string, patch *dto.KeyResultPatch) (*domain.KeyResult, error)
	Delete(ctx context.Context, id, userID string) error
}

// CaptureRepository defines methods for capture item operations
type CaptureRepository interface {
	List(ctx context.Context, userID, projectID string) ([]*domain.CaptureItem, error)
	Create(ctx context.Context, userID string, req *dto.CreateCaptureItemRequest) (*domain.CaptureItem, error)
	Patch(ctx context.Context, id, userID string, patch *dto.CaptureItemPatch) (*domain.CaptureItem, error)
	Delete(ctx context.Context, id, userID string) error
}

// PersonRepository defines methods for person operations
type PersonRepository interface {
	List(ctx context.Context, userID string) ([]*domain.Person, error)
	Create(ctx context.Context, person *domain.Person) error
	Patch(ctx context.Context, id, userID string, patch *dto.PersonPatch) (*domain.Person, error)
	Delete(ctx context.Context, id, userID string) error
}
