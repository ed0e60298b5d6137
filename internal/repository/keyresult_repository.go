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

const keyResultColumns = `id, project_id, title, description, target_value, current_value, unit, target_date,
	is_starred, is_completed, sort_order, created_at`

// keyResultRepository implements KeyResultRepository interface.
// Key results have no user_id column; ownership checks go through the
// parent project.
type keyResultRepository struct {
	db *database.Postgres
}

// NewKeyResultRepository creates a new key result repository
func NewKeyResultRepository(db *database.Postgres) KeyResultRepository {
	return &keyResultRepository{db: db}
}

func scanKeyResult(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.KeyResult, error) {
	k := &domain.KeyResult{}
	err := scanner.Scan(
		&k.ID,
		&k.ProjectID,
		&k.Title,
		&k.Description,
		&k.TargetValue,
		&k.CurrentValue,
		&k.Unit,
		&k.TargetDate,
		&k.IsStarred,
		&k.IsCompleted,
		&k.SortOrder,
		&k.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return k, nil
}

// ListByProject returns a project's key results ordered by sort_order
func (r *keyResultRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.KeyResult, error) {
	query := `SELECT ` + keyResultColumns + ` FROM key_results WHERE project_id = $1 ORDER BY sort_order, created_at`

	rows, err := r.db.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list key results: %w", err)
	}
	defer rows.Close()

	var results []*domain.KeyResult
	for rows.Next() {
		k, err := scanKeyResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan key result: %w", err)
		}
		results = append(results, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate key results: %w", err)
	}

	return results, nil
}

// Create inserts a key result at the end of the project's sort order
func (r *keyResultRepository) Create(ctx context.Context, req *dto.CreateKeyResultRequest) (*domain.KeyResult, error) {
	query := `
		INSERT INTO key_results (id, project_id, title, description, target_value, unit, target_date, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM key_results WHERE project_id = $2))
		RETURNING ` + keyResultColumns + `
	`

	k, err := scanKeyResult(r.db.DB.QueryRowContext(ctx, query,
		uuid.New().String(),
		req.ProjectID,
		req.Title,
		req.Description,
		req.TargetValue,
		req.Unit,
		req.TargetDate,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create key result: %w", err)
	}

	return k, nil
}

// Patch applies the provided fields; the project join scopes the update
// to the caller's own data.
func (r *keyResultRepository) Patch(ctx context.Context, id, userID string, patch *dto.KeyResultPatch) (*domain.KeyResult, error) {
	b := &setBuilder{}
	if patch.Title != nil {
		b.Add("title", *patch.Title)
	}
	if patch.Description != nil {
		b.Add("description", *patch.Description)
	}
	if patch.TargetValue != nil {
		b.Add("target_value", *patch.TargetValue)
	}
	if patch.CurrentValue != nil {
		b.Add("current_value", *patch.CurrentValue)
	}
	if patch.Unit != nil {
		b.Add("unit", *patch.Unit)
	}
	if patch.TargetDate != nil {
		b.Add("target_date", nullIfEmpty(*patch.TargetDate))
	}
	if patch.IsStarred != nil {
		b.Add("is_starred", *patch.IsStarred)
	}
	if patch.IsCompleted != nil {
		b.Add("is_completed", *patch.IsCompleted)
	}

	var query string
	if b.Empty() {
		query = `SELECT ` + keyResultColumns + ` FROM key_results kr
			WHERE kr.id = $1 AND EXISTS (SELECT 1 FROM projects p WHERE p.id = kr.project_id AND p.user_id = $2)`
		k, err := scanKeyResult(r.db.DB.QueryRowContext(ctx, query, id, userID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("key result with id %s not found: %w", id, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to get key result: %w", err)
		}
		return k, nil
	}

	query = fmt.Sprintf(`
		UPDATE key_results kr SET %s
		WHERE kr.id = %s
		AND EXISTS (SELECT 1 FROM projects p WHERE p.id = kr.project_id AND p.user_id = %s)
		RETURNING `+keyResultColumns,
		b.Set(), b.Next(id), b.Next(userID))

	k, err := scanKeyResult(r.db.DB.QueryRowContext(ctx, query, b.Args()...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("key result with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update key result: %w", err)
	}

	return k, nil
}

// Delete removes a key result owned through the project join
func (r *keyResultRepository) Delete(ctx context.Context, id, userID string) error {
	query := `
		DELETE FROM key_results kr
		WHERE kr.id = $1
		AND EXISTS (SELECT 1 FROM projects p WHERE p.id = kr.project_id AND p.user_id = $2)
	`

	res, err := r.db.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete key result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete key result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("key result with id %s not found: %w", id, ErrNotFound)
	}
	return nil
}
