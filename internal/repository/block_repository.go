package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rpm-system/rpm-backend/internal/domain"
	"github.com/rpm-system/rpm-backend/internal/dto"
	"github.com/rpm-system/rpm-backend/pkg/database"
)

const blockColumns = `id, user_id, category_id, project_id, result_title, result_description, purpose, target_date,
	is_completed, is_in_progress, sort_order, created_at, total_actions, completed_actions`

// blockRepository implements BlockRepository interface
type blockRepository struct {
	db *database.Postgres
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(db *database.Postgres) BlockRepository {
	return &blockRepository{db: db}
}

func scanBlock(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Block, error) {
	b := &domain.Block{}
	err := scanner.Scan(
		&b.ID,
		&b.UserID,
		&b.CategoryID,
		&b.ProjectID,
		&b.ResultTitle,
		&b.ResultDescription,
		&b.Purpose,
		&b.TargetDate,
		&b.IsCompleted,
		&b.IsInProgress,
		&b.SortOrder,
		&b.CreatedAt,
		&b.TotalActions,
		&b.CompletedActions,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// List returns the user's blocks with stats, optionally narrowed to a
// category or project.
func (r *blockRepository) List(ctx context.Context, userID string, filter BlockFilter) ([]*domain.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM v_rpm_blocks_stats WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	query += " ORDER BY sort_order, created_at DESC"

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*domain.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate blocks: %w", err)
	}

	return blocks, nil
}

// GetByID retrieves a block with stats scoped to its owner
func (r *blockRepository) GetByID(ctx context.Context, id, userID string) (*domain.Block, error) {
	query := `SELECT ` + blockColumns + ` FROM v_rpm_blocks_stats WHERE id = $1 AND user_id = $2`

	b, err := scanBlock(r.db.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("block with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get block: %w", err)
	}

	return b, nil
}

// Create inserts a block and claims the listed actions for it. The
// insert and the claim commit together.
func (r *blockRepository) Create(ctx context.Context, userID string, req *dto.CreateBlockRequest) (*domain.Block, error) {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO rpm_blocks (id, user_id, category_id, project_id, result_title, result_description, purpose, target_date, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM rpm_blocks WHERE user_id = $2))
	`,
		id,
		userID,
		req.CategoryID,
		req.ProjectID,
		req.ResultTitle,
		req.ResultDescription,
		req.Purpose,
		req.TargetDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create block: %w", err)
	}

	if len(req.ActionIDs) > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE actions SET block_id = $1 WHERE id = ANY($2) AND user_id = $3`,
			id, pq.Array(req.ActionIDs), userID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to attach actions to block: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit block creation: %w", err)
	}

	return r.GetByID(ctx, id, userID)
}

// Patch applies the provided fields and returns the fresh row with stats
func (r *blockRepository) Patch(ctx context.Context, id, userID string, patch *dto.BlockPatch) (*domain.Block, error) {
	b := &setBuilder{}
	if patch.ResultTitle != nil {
		b.Add("result_title", *patch.ResultTitle)
	}
	if patch.ResultDescription != nil {
		b.Add("result_description", *patch.ResultDescription)
	}
	if patch.Purpose != nil {
		b.Add("purpose", *patch.Purpose)
	}
	if patch.TargetDate != nil {
		b.Add("target_date", nullIfEmpty(*patch.TargetDate))
	}
	if patch.IsCompleted != nil {
		b.Add("is_completed", *patch.IsCompleted)
	}
	if patch.IsInProgress != nil {
		b.Add("is_in_progress", *patch.IsInProgress)
	}

	if b.Empty() {
		return r.GetByID(ctx, id, userID)
	}

	query := fmt.Sprintf(`UPDATE rpm_blocks SET %s WHERE id = %s AND user_id = %s`,
		b.Set(), b.Next(id), b.Next(userID))

	res, err := r.db.DB.ExecContext(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to update block: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update block: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("block with id %s not found: %w", id, ErrNotFound)
	}

	return r.GetByID(ctx, id, userID)
}

// Delete detaches the block's actions and removes the block in one
// transaction, so actions survive their block.
func (r *blockRepository) Delete(ctx context.Context, id, userID string) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE actions SET block_id = NULL WHERE block_id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to detach actions: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM rpm_blocks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("block with id %s not found: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit block deletion: %w", err)
	}

	return nil
}
