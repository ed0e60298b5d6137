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

const personColumns = `id, user_id, name, email, phone, avatar, notes, created_at`

// personRepository implements PersonRepository interface
type personRepository struct {
	db *database.Postgres
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *database.Postgres) PersonRepository {
	return &personRepository{db: db}
}

func scanPerson(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Person, error) {
	p := &domain.Person{}
	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.Avatar,
		&p.Notes,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the user's people sorted by name
func (r *personRepository) List(ctx context.Context, userID string) ([]*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE user_id = $1 ORDER BY name`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []*domain.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}

	return persons, nil
}

// Create inserts a person
func (r *personRepository) Create(ctx context.Context, person *domain.Person) error {
	query := `
		INSERT INTO persons (id, user_id, name, email, phone, avatar, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if person.ID == "" {
		person.ID = uuid.New().String()
	}
	if person.CreatedAt.IsZero() {
		person.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		person.ID,
		person.UserID,
		person.Name,
		person.Email,
		person.Phone,
		person.Avatar,
		person.Notes,
		person.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}

	return nil
}

// Patch applies the provided fields
func (r *personRepository) Patch(ctx context.Context, id, userID string, patch *dto.PersonPatch) (*domain.Person, error) {
	b := &setBuilder{}
	if patch.Name != nil {
		b.Add("name", *patch.Name)
	}
	if patch.Email != nil {
		b.Add("email", *patch.Email)
	}
	if patch.Phone != nil {
		b.Add("phone", *patch.Phone)
	}
	if patch.Avatar != nil {
		b.Add("avatar", *patch.Avatar)
	}
	if patch.Notes != nil {
		b.Add("notes", *patch.Notes)
	}

	var (
		p   *domain.Person
		err error
	)
	if b.Empty() {
		query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1 AND user_id = $2`
		p, err = scanPerson(r.db.DB.QueryRowContext(ctx, query, id, userID))
	} else {
		query := fmt.Sprintf(`UPDATE persons SET %s WHERE id = %s AND user_id = %s RETURNING `+personColumns,
			b.Set(), b.Next(id), b.Next(userID))
		p, err = scanPerson(r.db.DB.QueryRowContext(ctx, query, b.Args()...))
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("person with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	return p, nil
}

// Delete removes a person; actions that referenced them keep running
// with the reference cleared by the foreign key.
func (r *personRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM persons WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("person with id %s not found: %w", id, ErrNotFound)
	}
	return nil
}
