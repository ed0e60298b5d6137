package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/pkg/database"
)

const captureColumns = `id, user_id, project_id, title, notes, is_processed, is_starred, sort_order, created_at`

// captureRepository implements CaptureRepository interface
type captureRepository struct {
	db *database.Postgres
}

// NewCaptureRepository creates a new capture item repository
func NewCaptureRepository(db *database.Postgres) CaptureRepository {
	return &captureRepository{db: db}
}

func scanCaptureItem(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.CaptureItem, error) {
	c := &domain.CaptureItem{}
	err := scanner.Scan(
		&c.ID,
		&c.UserID,
		&c.ProjectID,
		&c.Title,
		&c.Notes,
		&c.IsProcessed,
		&c.IsStarred,
		&c.SortOrder,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the user's capture inbox, newest first, optionally
// narrowed to one project.
func (r *captureRepository) List(ctx context.Context, userID, projectID string) ([]*domain.CaptureItem, error) {
	query := `SELECT ` + captureColumns + ` FROM capture_items WHERE user_id = $1`
	args := []interface{}{userID}

	if projectID != "" {
		args = append(args, projectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list capture items: %w", err)
	}
	defer rows.Close()

	var items []*domain.CaptureItem
	for rows.Next() {
		c, err := scanCaptureItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan capture item: %w", err)
		}
		items = append(items, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate capture items: %w", err)
	}

	return items, nil
}

// Create inserts a capture item
func (r *captureRepository) Create(ctx context.Context, userID string, req *dto.CreateCaptureItemRequest) (*domain.CaptureItem, error) {
	query := `
		INSERT INTO capture_items (id, user_id, project_id, title, notes, sort_order)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM capture_items WHERE user_id = $2))
		RETURNING ` + captureColumns + `
	`

	c, err := scanCaptureItem(r.db.DB.QueryRowContext(ctx, query,
		uuid.New().String(),
		userID,
		req.ProjectID,
		req.Title,
		req.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create capture item: %w", err)
	}

	return c, nil
}

// Patch applies the provided fields
func (r *captureRepository) Patch(ctx context.Context, id, userID string, patch *dto.CaptureItemPatch) (*domain.CaptureItem, error) {
	b := &setBuilder{}
	if patch.Title != nil {
		b.Add("title", *patch.Title)
	}
	if patch.Notes != nil {
		b.Add("notes", *patch.Notes)
	}
	if patch.IsProcessed != nil {
		b.Add("is_processed", *patch.IsProcessed)
	}
	if patch.IsStarred != nil {
		b.Add("is_starred", *patch.IsStarred)
	}

	var (
		c   *domain.CaptureItem
		err error
	)
	if b.Empty() {
		query := `SELECT ` + captureColumns + ` FROM capture_items WHERE id = $1 AND user_id = $2`
		c, err = scanCaptureItem(r.db.DB.QueryRowContext(ctx, query, id, userID))
	} else {
		query := fmt.Sprintf(`UPDATE capture_items SET %s WHERE id = %s AND user_id = %s RETURNING `+captureColumns,
			b.Set(), b.Next(id), b.Next(userID))
		c, err = scanCaptureItem(r.db.DB.QueryRowContext(ctx, query, b.Args()...))
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("capture item with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update capture item: %w", err)
	}

	return c, nil
}

// Delete removes a capture item
func (r *captureRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM capture_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete capture item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete capture item: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("capture item with id %s not found: %w", id, ErrNotFound)
	}
	return nil
}
