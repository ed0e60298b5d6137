package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/pkg/database"
)

const categoryColumns = `id, user_id, name, description, icon, color, cover_image, sort_order, is_active, created_at`

// categoryRepository implements CategoryRepository interface
type categoryRepository struct {
	db *database.Postgres
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.Postgres) CategoryRepository {
	return &categoryRepository{db: db}
}

// ProvisionDefaults invokes the stored function that seeds the default
// category set for a new account. A failure here fails the whole
// registration; there is no compensating transaction.
func (r *categoryRepository) ProvisionDefaults(ctx context.Context, userID string) error {
	_, err := r.db.DB.ExecContext(ctx, `SELECT create_default_categories_for_user($1)`, userID)
	if err != nil {
		return fmt.Errorf("failed to provision default categories: %w", err)
	}
	return nil
}

func scanCategory(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Category, error) {
	c := &domain.Category{}
	err := scanner.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Description,
		&c.Icon,
		&c.Color,
		&c.CoverImage,
		&c.SortOrder,
		&c.IsActive,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the active categories for a user ordered by sort_order
func (r *categoryRepository) List(ctx context.Context, userID string) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 AND is_active = true ORDER BY sort_order`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// GetByID retrieves a category scoped to its owner
func (r *categoryRepository) GetByID(ctx context.Context, id, userID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`

	c, err := scanCategory(r.db.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return c, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id, userID string) (bool, error) {
	var exists bool
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)`,
		id, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}

// GetDetails retrieves the details row of a category, if any
func (r *categoryRepository) GetDetails(ctx context.Context, categoryID string) (*domain.CategoryDetails, error) {
	query := `
		SELECT id, category_id, ultimate_vision, roles, ultimate_purpose, one_year_goals, ninety_day_goals
		FROM category_details
		WHERE category_id = $1
	`

	d := &domain.CategoryDetails{}
	err := r.db.DB.QueryRowContext(ctx, query, categoryID).Scan(
		&d.ID,
		&d.CategoryID,
		&d.UltimateVision,
		&d.Roles,
		&d.UltimatePurpose,
		&d.OneYearGoals,
		&d.NinetyDayGoals,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category details not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category details: %w", err)
	}

	return d, nil
}

// Create inserts a category at the end of the user's sort order along
// with its empty details row.
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, description, icon, color, cover_image, sort_order, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM categories WHERE user_id = $2),
			true, $8)
		RETURNING sort_order
	`

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	category.IsActive = true

	err := r.db.DB.QueryRowContext(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		category.Description,
		category.Icon,
		category.Color,
		category.CoverImage,
		category.CreatedAt,
	).Scan(&category.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	_, err = r.db.DB.ExecContext(ctx,
		`INSERT INTO category_details (id, category_id) VALUES ($1, $2)`,
		uuid.New().String(), category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to create category details: %w", err)
	}

	return nil
}

// Update replaces the editable fields of a category
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, icon = $3, color = $4, cover_image = $5
		WHERE id = $6 AND user_id = $7
		RETURNING sort_order, is_active, created_at
	`

	err := r.db.DB.QueryRowContext(ctx, query,
		category.Name,
		category.Description,
		category.Icon,
		category.Color,
		category.CoverImage,
		category.ID,
		category.UserID,
	).Scan(&category.SortOrder, &category.IsActive, &category.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("category with id %s not found: %w", category.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	return nil
}

// UpsertDetails creates or replaces the long-form planning fields
func (r *categoryRepository) UpsertDetails(ctx context.Context, categoryID string, req *dto.CategoryDetailsRequest) (*domain.CategoryDetails, error) {
	query := `
		INSERT INTO category_details (id, category_id, ultimate_vision, roles, ultimate_purpose, one_year_goals, ninety_day_goals)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (category_id) DO UPDATE SET
			ultimate_vision = EXCLUDED.ultimate_vision,
			roles = EXCLUDED.roles,
			ultimate_purpose = EXCLUDED.ultimate_purpose,
			one_year_goals = EXCLUDED.one_year_goals,
			ninety_day_goals = EXCLUDED.ninety_day_goals
		RETURNING id, category_id, ultimate_vision, roles, ultimate_purpose, one_year_goals, ninety_day_goals
	`

	d := &domain.CategoryDetails{}
	err := r.db.DB.QueryRowContext(ctx, query,
		uuid.New().String(),
		categoryID,
		req.UltimateVision,
		req.Roles,
		req.UltimatePurpose,
		req.OneYearGoals,
		req.NinetyDayGoals,
	).Scan(
		&d.ID,
		&d.CategoryID,
		&d.UltimateVision,
		&d.Roles,
		&d.UltimatePurpose,
		&d.OneYearGoals,
		&d.NinetyDayGoals,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert category details: %w", err)
	}

	return d, nil
}

// SoftDelete hides a category; rows are never hard-deleted
func (r *categoryRepository) SoftDelete(ctx context.Context, id, userID string) error {
	query := `UPDATE categories SET is_active = false WHERE id = $1 AND user_id = $2`

	_, err := r.db.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}
