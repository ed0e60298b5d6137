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

// actionColumns are read from v_actions_full, which joins in the names
// of the category, project, block, and leverage person.
const actionColumns = `id, user_id, category_id, project_id, block_id, leverage_person_id, title, notes,
	duration_hours, duration_minutes, scheduled_date, scheduled_time, end_date,
	is_starred, is_this_week, is_completed, is_cancelled, completed_at, sort_order, created_at,
	category_name, project_name, block_title, person_name`

// actionRepository implements ActionRepository interface
type actionRepository struct {
	db *database.Postgres
}

// NewActionRepository creates a new action repository
func NewActionRepository(db *database.Postgres) ActionRepository {
	return &actionRepository{db: db}
}

func scanAction(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Action, error) {
	a := &domain.Action{}
	err := scanner.Scan(
		&a.ID,
		&a.UserID,
		&a.CategoryID,
		&a.ProjectID,
		&a.BlockID,
		&a.LeveragePersonID,
		&a.Title,
		&a.Notes,
		&a.DurationHours,
		&a.DurationMinutes,
		&a.ScheduledDate,
		&a.ScheduledTime,
		&a.EndDate,
		&a.IsStarred,
		&a.IsThisWeek,
		&a.IsCompleted,
		&a.IsCancelled,
		&a.CompletedAt,
		&a.SortOrder,
		&a.CreatedAt,
		&a.CategoryName,
		&a.ProjectName,
		&a.BlockTitle,
		&a.PersonName,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *actionRepository) queryActions(ctx context.Context, query string, args ...interface{}) ([]*domain.Action, error) {
	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	var actions []*domain.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		actions = append(actions, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate actions: %w", err)
	}

	return actions, nil
}

// List returns the user's actions narrowed by the optional filters
func (r *actionRepository) List(ctx context.Context, userID string, filter ActionFilter) ([]*domain.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM v_actions_full WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if filter.BlockID != "" {
		args = append(args, filter.BlockID)
		query += fmt.Sprintf(" AND block_id = $%d", len(args))
	}
	if filter.Starred {
		query += " AND is_starred = true"
	}
	if filter.ThisWeek {
		query += " AND is_this_week = true"
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += fmt.Sprintf(" AND is_completed = $%d", len(args))
	}
	query += " ORDER BY sort_order, created_at DESC"

	return r.queryActions(ctx, query, args...)
}

// ListByBlock returns the actions attached to one block
func (r *actionRepository) ListByBlock(ctx context.Context, blockID string) ([]*domain.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM v_actions_full WHERE block_id = $1 ORDER BY sort_order, created_at`
	return r.queryActions(ctx, query, blockID)
}

// ListRange returns the actions scheduled inside a date window, used by
// the planner calendar
func (r *actionRepository) ListRange(ctx context.Context, userID, startDate, endDate string) ([]*domain.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM v_actions_full
		WHERE user_id = $1 AND scheduled_date >= $2 AND scheduled_date <= $3
		ORDER BY scheduled_date, scheduled_time`
	return r.queryActions(ctx, query, userID, startDate, endDate)
}

// GetByID retrieves an action scoped to its owner
func (r *actionRepository) GetByID(ctx context.Context, id, userID string) (*domain.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM v_actions_full WHERE id = $1 AND user_id = $2`

	a, err := scanAction(r.db.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("action with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get action: %w", err)
	}

	return a, nil
}

// Create inserts an action and returns it with its joined names
func (r *actionRepository) Create(ctx context.Context, userID string, req *dto.CreateActionRequest) (*domain.Action, error) {
	query := `
		INSERT INTO actions (id, user_id, category_id, project_id, block_id, leverage_person_id, title, notes,
			duration_hours, duration_minutes, scheduled_date, scheduled_time, end_date, is_starred, is_this_week, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			COALESCE($9, 0), COALESCE($10, 5), $11, $12, $13, $14, $15,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM actions WHERE user_id = $2))
		RETURNING id
	`

	id := uuid.New().String()
	err := r.db.DB.QueryRowContext(ctx, query,
		id,
		userID,
		req.CategoryID,
		req.ProjectID,
		req.BlockID,
		req.LeveragePersonID,
		req.Title,
		req.Notes,
		req.DurationHours,
		req.DurationMinutes,
		req.ScheduledDate,
		req.ScheduledTime,
		req.EndDate,
		req.IsStarred,
		req.IsThisWeek,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create action: %w", err)
	}

	return r.GetByID(ctx, id, userID)
}

// Patch applies the provided fields. Completing an action stamps
// completed_at; reopening it clears the stamp.
func (r *actionRepository) Patch(ctx context.Context, id, userID string, patch *dto.ActionPatch) (*domain.Action, error) {
	b := &setBuilder{}
	if patch.CategoryID != nil {
		b.Add("category_id", nullIfEmpty(*patch.CategoryID))
	}
	if patch.ProjectID != nil {
		b.Add("project_id", nullIfEmpty(*patch.ProjectID))
	}
	if patch.BlockID != nil {
		b.Add("block_id", nullIfEmpty(*patch.BlockID))
	}
	if patch.LeveragePersonID != nil {
		b.Add("leverage_person_id", nullIfEmpty(*patch.LeveragePersonID))
	}
	if patch.Title != nil {
		b.Add("title", *patch.Title)
	}
	if patch.Notes != nil {
		b.Add("notes", *patch.Notes)
	}
	if patch.DurationHours != nil {
		b.Add("duration_hours", *patch.DurationHours)
	}
	if patch.DurationMinutes != nil {
		b.Add("duration_minutes", *patch.DurationMinutes)
	}
	if patch.ScheduledDate != nil {
		b.Add("scheduled_date", nullIfEmpty(*patch.ScheduledDate))
	}
	if patch.ScheduledTime != nil {
		b.Add("scheduled_time", nullIfEmpty(*patch.ScheduledTime))
	}
	if patch.EndDate != nil {
		b.Add("end_date", nullIfEmpty(*patch.EndDate))
	}
	if patch.IsStarred != nil {
		b.Add("is_starred", *patch.IsStarred)
	}
	if patch.IsThisWeek != nil {
		b.Add("is_this_week", *patch.IsThisWeek)
	}
	if patch.IsCompleted != nil {
		b.Add("is_completed", *patch.IsCompleted)
		if *patch.IsCompleted {
			b.AddExpr("completed_at = NOW()")
		} else {
			b.AddExpr("completed_at = NULL")
		}
	}
	if patch.IsCancelled != nil {
		b.Add("is_cancelled", *patch.IsCancelled)
	}
	if patch.SortOrder != nil {
		b.Add("sort_order", *patch.SortOrder)
	}

	if b.Empty() {
		return r.GetByID(ctx, id, userID)
	}

	query := fmt.Sprintf(`UPDATE actions SET %s WHERE id = %s AND user_id = %s`,
		b.Set(), b.Next(id), b.Next(userID))

	res, err := r.db.DB.ExecContext(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to update action: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update action: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("action with id %s not found: %w", id, ErrNotFound)
	}

	return r.GetByID(ctx, id, userID)
}

// Duplicate copies an action, schedule included, with a " (copy)" title
// suffix. The copy always starts out not completed and not cancelled.
func (r *actionRepository) Duplicate(ctx context.Context, id, userID string) (*domain.Action, error) {
	query := `
		INSERT INTO actions (id, user_id, category_id, project_id, block_id, leverage_person_id, title, notes,
			duration_hours, duration_minutes, scheduled_date, scheduled_time, end_date, is_starred, is_this_week, sort_order)
		SELECT $1, user_id, category_id, project_id, block_id, leverage_person_id, title || ' (copy)', notes,
			duration_hours, duration_minutes, scheduled_date, scheduled_time, end_date, is_starred, is_this_week,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM actions WHERE user_id = $3)
		FROM actions
		WHERE id = $2 AND user_id = $3
		RETURNING id
	`

	newID := uuid.New().String()
	err := r.db.DB.QueryRowContext(ctx, query, newID, id, userID).Scan(&newID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("action with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to duplicate action: %w", err)
	}

	return r.GetByID(ctx, newID, userID)
}

// Delete removes an action
func (r *actionRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM actions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("action with id %s not found: %w", id, ErrNotFound)
	}
	return nil
}
