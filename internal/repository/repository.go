package repository

import (
	"github.com/rpm-system/rpm-backend/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User      UserRepository
	Token     TokenRepository
	Category  CategoryRepository
	Project   ProjectRepository
	Action    ActionRepository
	Block     BlockRepository
	KeyResult KeyResultRepository
	Capture   CaptureRepository
	Person    PersonRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Token:     NewTokenRepository(db),
		Category:  NewCategoryRepository(db),
		Project:   NewProjectRepository(db),
		Action:    NewActionRepository(db),
		Block:     NewBlockRepository(db),
		KeyResult: NewKeyResultRepository(db),
		Capture:   NewCaptureRepository(db),
		Person:    NewPersonRepository(db),
	}
}
