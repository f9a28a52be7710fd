package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormStore is a GORM implementation of Store
type GormStore struct {
	db       *gorm.DB
	users    UserRepository
	projects ProjectRepository
	tasks    TaskRepository
}

// NewStore creates a Store whose repositories use db
func NewStore(db *gorm.DB) Store {
	return &GormStore{
		db:       db,
		users:    NewUserRepository(db),
		projects: NewProjectRepository(db),
		tasks:    NewTaskRepository(db),
	}
}

func (s *GormStore) Users() UserRepository       { return s.users }
func (s *GormStore) Projects() ProjectRepository { return s.projects }
func (s *GormStore) Tasks() TaskRepository       { return s.tasks }

// Transaction runs fn against repositories bound to a new transaction.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
	return translateError(err)
}
