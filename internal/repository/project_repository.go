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

// projectColumns are read from v_projects_stats so every fetch carries
// the aggregated action counters.
const projectColumns = `id, user_id, category_id, name, ultimate_result, ultimate_purpose, description, cover_image,
	start_date, end_date, is_starred, is_completed, sort_order, created_at, total_actions, completed_actions`

// projectRepository implements ProjectRepository interface
type projectRepository struct {
	db *database.Postgres
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *database.Postgres) ProjectRepository {
	return &projectRepository{db: db}
}

func scanProject(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Project, error) {
	p := &domain.Project{}
	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.CategoryID,
		&p.Name,
		&p.UltimateResult,
		&p.UltimatePurpose,
		&p.Description,
		&p.CoverImage,
		&p.StartDate,
		&p.EndDate,
		&p.IsStarred,
		&p.IsCompleted,
		&p.SortOrder,
		&p.CreatedAt,
		&p.TotalActions,
		&p.CompletedActions,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the user's projects with stats, optionally narrowed to a
// category or to starred projects only.
func (r *projectRepository) List(ctx context.Context, userID string, filter ProjectFilter) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM v_projects_stats WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Starred {
		query += " AND is_starred = true"
	}
	query += " ORDER BY sort_order, created_at DESC"

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// GetByID retrieves a project with stats scoped to its owner
func (r *projectRepository) GetByID(ctx context.Context, id, userID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM v_projects_stats WHERE id = $1 AND user_id = $2`

	p, err := scanProject(r.db.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return p, nil
}

// Exists checks ownership without fetching the row
func (r *projectRepository) Exists(ctx context.Context, id, userID string) (bool, error) {
	var exists bool
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1 AND user_id = $2)`,
		id, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return exists, nil
}

// Create inserts a project at the end of the category's sort order
func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (id, user_id, category_id, name, ultimate_result, ultimate_purpose, description, cover_image,
			start_date, end_date, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM projects WHERE category_id = $3),
			$11)
		RETURNING sort_order
	`

	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		project.ID,
		project.UserID,
		project.CategoryID,
		project.Name,
		project.UltimateResult,
		project.UltimatePurpose,
		project.Description,
		project.CoverImage,
		project.StartDate,
		project.EndDate,
		project.CreatedAt,
	).Scan(&project.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Patch applies the provided fields and returns the fresh row with stats
func (r *projectRepository) Patch(ctx context.Context, id, userID string, patch *dto.ProjectPatch) (*domain.Project, error) {
	b := &setBuilder{}
	if patch.Name != nil {
		b.Add("name", *patch.Name)
	}
	if patch.UltimateResult != nil {
		b.Add("ultimate_result", *patch.UltimateResult)
	}
	if patch.UltimatePurpose != nil {
		b.Add("ultimate_purpose", *patch.UltimatePurpose)
	}
	if patch.Description != nil {
		b.Add("description", *patch.Description)
	}
	if patch.CoverImage != nil {
		b.Add("cover_image", *patch.CoverImage)
	}
	if patch.StartDate != nil {
		b.Add("start_date", nullIfEmpty(*patch.StartDate))
	}
	if patch.EndDate != nil {
		b.Add("end_date", nullIfEmpty(*patch.EndDate))
	}
	if patch.IsStarred != nil {
		b.Add("is_starred", *patch.IsStarred)
	}
	if patch.IsCompleted != nil {
		b.Add("is_completed", *patch.IsCompleted)
	}

	if b.Empty() {
		return r.GetByID(ctx, id, userID)
	}

	query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = %s AND user_id = %s`,
		b.Set(), b.Next(id), b.Next(userID))

	res, err := r.db.DB.ExecContext(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("project with id %s not found: %w", id, ErrNotFound)
	}

	return r.GetByID(ctx, id, userID)
}

// Delete removes a project and, via cascades, its children
func (r *projectRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project with id %s not found: %w", id, ErrNotFound)
	}
	return nil
}

// ListInspiration returns a project's reference attachments
func (r *projectRepository) ListInspiration(ctx context.Context, projectID string) ([]*domain.InspirationItem, error) {
	query := `
		SELECT id, project_id, title, url, image_url, sort_order, created_at
		FROM inspiration_items
		WHERE project_id = $1
		ORDER BY sort_order
	`

	rows, err := r.db.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspiration items: %w", err)
	}
	defer rows.Close()

	var items []*domain.InspirationItem
	for rows.Next() {
		item := &domain.InspirationItem{}
		err := rows.Scan(&item.ID, &item.ProjectID, &item.Title, &item.URL, &item.ImageURL, &item.SortOrder, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inspiration item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inspiration items: %w", err)
	}

	return items, nil
}

// nullIfEmpty maps an empty string to SQL NULL for nullable columns
// patched from string-typed JSON fields.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
