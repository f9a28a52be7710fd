package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/project-manager-api/internal/models"
	"github.com/yukikurage/project-manager-api/internal/repository"
	"github.com/yukikurage/project-manager-api/internal/utils"
)

// UserService handles user business logic
type UserService struct {
	store repository.Store
	log   *zap.SugaredLogger
}

// NewUserService creates a new UserService
func NewUserService(store repository.Store, log *zap.SugaredLogger) *UserService {
	return &UserService{
		store: store,
		log:   log.Named("service.user"),
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Name  string
	Email string
	Role  models.UserRole
}

// UpdateUserInput represents input for updating a user. Nil fields are left untouched.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *models.UserRole
}

func duplicateEmail(email string) *Error {
	return newError(ErrDuplicate, "A user with email '%s' already exists", email)
}

// CreateUser creates a user after checking the email is free
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	user := &models.User{
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
	}
	if user.Role == "" {
		user.Role = models.UserRoleDeveloper
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		_, err := tx.Users().FindByEmail(ctx, input.Email, 0)
		if err == nil {
			return duplicateEmail(input.Email)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}

		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return duplicateEmail(input.Email)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("user created", "user_id", user.ID)
	return user, nil
}

// ListUsers returns a page of users and the total count
func (s *UserService) ListUsers(ctx context.Context, page utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.store.Users().List(ctx, repository.UserFilter{Pagination: page})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	return findUser(ctx, s.store, id)
}

// UpdateUser applies a partial update
func (s *UserService) UpdateUser(ctx context.Context, id uint64, input UpdateUserInput) (*models.User, error) {
	var updated *models.User

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := findUser(ctx, tx, id)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if input.Name != nil {
			fields["name"] = *input.Name
		}
		if input.Email != nil && *input.Email != user.Email {
			_, err := tx.Users().FindByEmail(ctx, *input.Email, id)
			if err == nil {
				return duplicateEmail(*input.Email)
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check email: %w", err)
			}
			fields["email"] = *input.Email
		}
		if input.Role != nil {
			fields["role"] = *input.Role
		}

		if err := tx.Users().Update(ctx, user, fields); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) && input.Email != nil {
				return duplicateEmail(*input.Email)
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		updated, err = findUser(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteUser soft deletes a user that nothing references any more
func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		exists, err := tx.Users().Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return notFound("User", id)
		}

		refs, err := tx.Users().CountReferences(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count user references: %w", err)
		}
		if refs.Total() > 0 {
			return newError(ErrIntegrityViolation,
				"User %d cannot be deleted: responsible for %d task(s) and member of %d project(s)",
				id, refs.ResponsibleTasks, refs.Memberships)
		}

		if err := tx.Users().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return newError(ErrIntegrityViolation, "User %d is still referenced", id)
			}
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Infow("user deleted", "user_id", id)
	return nil
}

func findUser(ctx context.Context, store repository.Store, id uint64) (*models.User, error) {
	user, err := store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
