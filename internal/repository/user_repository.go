package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/pkg/database"
)

const userColumns = `id, email, password_hash, name, avatar, provider, provider_id, email_verified, created_at`

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, avatar, provider, provider_id, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Provider == "" {
		user.Provider = domain.ProviderLocal
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Avatar,
		user.Provider,
		user.ProviderID,
		user.EmailVerified,
		user.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	var passwordHash, providerID sql.NullString

	err := row.Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&user.Name,
		&user.Avatar,
		&user.Provider,
		&providerID,
		&user.EmailVerified,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if passwordHash.Valid {
		user.PasswordHash = &passwordHash.String
	}
	if providerID.Valid {
		user.ProviderID = &providerID.String
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByProvider retrieves a user by external identity
func (r *userRepository) GetByProvider(ctx context.Context, provider, providerID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE provider = $1 AND provider_id = $2`

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, provider, providerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user for provider %s not found: %w", provider, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by provider: %w", err)
	}

	return user, nil
}

// LinkProvider migrates an account to a provider-owned identity. The
// reverse migration is deliberately not exposed.
func (r *userRepository) LinkProvider(ctx context.Context, userID, provider, providerID string) error {
	query := `UPDATE users SET provider = $1, provider_id = $2 WHERE id = $3`

	result, err := r.db.DB.ExecContext(ctx, query, provider, providerID, userID)
	if err != nil {
		return fmt.Errorf("failed to link provider: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user with id %s not found: %w", userID, ErrNotFound)
	}

	return nil
}

// UpdateProfile applies a typed patch to the mutable profile fields
func (r *userRepository) UpdateProfile(ctx context.Context, userID string, patch *dto.ProfilePatch) (*domain.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($1, name), avatar = COALESCE($2, avatar)
		WHERE id = $3
		RETURNING ` + userColumns

	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, patch.Name, patch.Avatar, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %s not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}
