package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/project-manager-api/internal/models"
	"github.com/yukikurage/project-manager-api/internal/repository"
	"github.com/yukikurage/project-manager-api/internal/utils"
)

// ProjectService provides business logic for projects and their members.
type ProjectService struct {
	store repository.Store
	log   *zap.SugaredLogger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(store repository.Store, log *zap.SugaredLogger) *ProjectService {
	return &ProjectService{
		store: store,
		log:   log.Named("service.project"),
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description *string
	Status      models.ProjectStatus
	EndDate     *time.Time
}

// UpdateProjectInput represents a partial project update. The Clear flags
// set the nullable columns to NULL.
type UpdateProjectInput struct {
	Name             *string
	Description      *string
	ClearDescription bool
	Status           *models.ProjectStatus
	EndDate          *time.Time
	ClearEndDate     bool
}

// MembershipChange reports the project and user involved in an assignment.
type MembershipChange struct {
	Project models.Project
	User    models.User
}

func duplicateProjectName(name string) *Error {
	return newError(ErrDuplicate, "A project named '%s' already exists", name)
}

// CreateProject creates a project; its start date is the creation time.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		StartDate:   time.Now().UTC(),
		EndDate:     input.EndDate,
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusActive
	}

	var created *models.Project
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := ensureProjectNameFree(ctx, tx, input.Name, 0); err != nil {
			return err
		}

		if err := tx.Projects().Create(ctx, project); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return duplicateProjectName(input.Name)
			}
			return fmt.Errorf("failed to create project: %w", err)
		}

		var err error
		created, err = findProject(ctx, tx, project.ID, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("project created", "project_id", created.ID)
	return created, nil
}

// ListProjects returns a page of projects, optionally filtered by status.
func (s *ProjectService) ListProjects(ctx context.Context, status *models.ProjectStatus, page utils.PaginationParams) ([]models.Project, int64, error) {
	projects, total, err := s.store.Projects().List(ctx, repository.ProjectFilter{
		Status:     status,
		Pagination: page,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project with its members.
func (s *ProjectService) GetProject(ctx context.Context, id uint64) (*models.Project, error) {
	return findProject(ctx, s.store, id, true)
}

// UpdateProject applies a partial update.
func (s *ProjectService) UpdateProject(ctx context.Context, id uint64, input UpdateProjectInput) (*models.Project, error) {
	var updated *models.Project

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		project, err := findProject(ctx, tx, id, false)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if input.Name != nil {
			if err := ensureProjectNameFree(ctx, tx, *input.Name, id); err != nil {
				return err
			}
			fields["name"] = *input.Name
		}
		if input.ClearDescription {
			fields["description"] = nil
		} else if input.Description != nil {
			fields["description"] = *input.Description
		}
		if input.Status != nil {
			fields["status"] = *input.Status
		}
		if input.ClearEndDate {
			fields["end_date"] = nil
		} else if input.EndDate != nil {
			fields["end_date"] = *input.EndDate
		}

		if err := tx.Projects().Update(ctx, project, fields); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) && input.Name != nil {
				return duplicateProjectName(*input.Name)
			}
			return fmt.Errorf("failed to update project: %w", err)
		}

		updated, err = findProject(ctx, tx, id, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteProject deletes a project with its tasks and memberships.
func (s *ProjectService) DeleteProject(ctx context.Context, id uint64) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		exists, err := tx.Projects().Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check project: %w", err)
		}
		if !exists {
			return notFound("Project", id)
		}

		if err := tx.Projects().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return newError(ErrIntegrityViolation, "Project %d is still referenced", id)
			}
			return fmt.Errorf("failed to delete project: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Infow("project deleted", "project_id", id)
	return nil
}

// AssignUser adds a user to a project's members.
func (s *ProjectService) AssignUser(ctx context.Context, projectID, userID uint64) (*MembershipChange, error) {
	var change MembershipChange

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		project, err := findProject(ctx, tx, projectID, false)
		if err != nil {
			return err
		}
		user, err := findUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		change = MembershipChange{Project: *project, User: *user}

		alreadyMember := newError(ErrInvalidState,
			"User '%s' is already assigned to project '%s'", user.Name, project.Name)

		isMember, err := tx.Projects().IsMember(ctx, projectID, userID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if isMember {
			return alreadyMember
		}

		member := &models.ProjectMember{ProjectID: projectID, UserID: userID}
		if err := tx.Projects().AddMember(ctx, member); err != nil {
			switch {
			case errors.Is(err, repository.ErrDuplicateKey):
				return alreadyMember
			case errors.Is(err, repository.ErrForeignKeyViolation):
				return newError(ErrIntegrityViolation, "Project %d or user %d no longer exists", projectID, userID)
			}
			return fmt.Errorf("failed to add member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("user assigned to project", "project_id", projectID, "user_id", userID)
	return &change, nil
}

// UnassignUser removes a user from a project's members. Tasks of the project
// that name the user as responsible keep that value.
func (s *ProjectService) UnassignUser(ctx context.Context, projectID, userID uint64) (*MembershipChange, error) {
	var change MembershipChange

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		project, err := findProject(ctx, tx, projectID, false)
		if err != nil {
			return err
		}
		user, err := findUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		change = MembershipChange{Project: *project, User: *user}

		notMember := newError(ErrInvalidState,
			"User '%s' is not assigned to project '%s'", user.Name, project.Name)

		isMember, err := tx.Projects().IsMember(ctx, projectID, userID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if !isMember {
			return notMember
		}

		removed, err := tx.Projects().RemoveMember(ctx, projectID, userID)
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		if !removed {
			return notMember
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("user unassigned from project", "project_id", projectID, "user_id", userID)
	return &change, nil
}

func ensureProjectNameFree(ctx context.Context, store repository.Store, name string, excludeID uint64) error {
	_, err := store.Projects().FindByName(ctx, name, excludeID)
	if err == nil {
		return duplicateProjectName(name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check project name: %w", err)
	}
	return nil
}

func findProject(ctx context.Context, store repository.Store, id uint64, withMembers bool) (*models.Project, error) {
	var preload []string
	if withMembers {
		preload = []string{"Members", "Members.User"}
	}

	project, err := store.Projects().FindByID(ctx, id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Project", id)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}
