package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/project-manager-api/internal/constants"
	"github.com/yukikurage/project-manager-api/internal/models"
	"github.com/yukikurage/project-manager-api/internal/repository"
	"github.com/yukikurage/project-manager-api/internal/utils"
)

// TaskService handles task business logic
type TaskService struct {
	store repository.Store
	log   *zap.SugaredLogger
}

// NewTaskService creates a new TaskService
func NewTaskService(store repository.Store, log *zap.SugaredLogger) *TaskService {
	return &TaskService{
		store: store,
		log:   log.Named("service.task"),
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID         *uint64
	Status            *models.TaskStatus
	ResponsibleUserID *uint64
	Pagination        utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	ProjectID   uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *models.TaskStatus
	Priority         *models.TaskPriority
	DueDate          *time.Time
	ClearDueDate     bool
	ProjectID        *uint64
}

// ResponsibleAssignment is the outcome of setting a task's responsible user
type ResponsibleAssignment struct {
	Task    models.Task
	User    models.User
	Project models.Project
}

// ResponsibleUnassignment is the outcome of clearing a task's responsible user
type ResponsibleUnassignment struct {
	Task models.Task
	// PreviousUserName is the name of the user that was responsible, or a
	// placeholder when that user no longer exists.
	PreviousUserName string
}

// ListTasks returns tasks matching the filters
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	tasks, total, err := s.store.Tasks().List(ctx, repository.TaskFilter{
		ProjectID:         input.ProjectID,
		Status:            input.Status,
		ResponsibleUserID: input.ResponsibleUserID,
		Pagination:        input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a task with its responsible user
func (s *TaskService) GetTask(ctx context.Context, id uint64) (*models.Task, error) {
	return findTask(ctx, s.store, id)
}

// CreateTask creates a task in an existing project
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	var created *models.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := ensureProjectExists(ctx, tx, input.ProjectID); err != nil {
			return err
		}

		if err := tx.Tasks().Create(ctx, task); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return notFound("Project", input.ProjectID)
			}
			return fmt.Errorf("failed to create task: %w", err)
		}

		var err error
		created, err = findTask(ctx, tx, task.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("task created", "task_id", created.ID, "project_id", created.ProjectID)
	return created, nil
}

// UpdateTask applies a partial update. Moving a task to another project
// requires that project to exist and, when the task has a responsible user,
// that user to be a member of it.
func (s *TaskService) UpdateTask(ctx context.Context, id uint64, input UpdateTaskInput) (*models.Task, error) {
	var updated *models.Task

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		task, err := findTask(ctx, tx, id)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if input.Title != nil {
			fields["title"] = *input.Title
		}
		if input.ClearDescription {
			fields["description"] = nil
		} else if input.Description != nil {
			fields["description"] = *input.Description
		}
		if input.Status != nil {
			fields["status"] = *input.Status
		}
		if input.Priority != nil {
			fields["priority"] = *input.Priority
		}
		if input.ClearDueDate {
			fields["due_date"] = nil
		} else if input.DueDate != nil {
			fields["due_date"] = *input.DueDate
		}
		if input.ProjectID != nil {
			if err := ensureProjectExists(ctx, tx, *input.ProjectID); err != nil {
				return err
			}
			if *input.ProjectID != task.ProjectID && task.ResponsibleUserID != nil {
				isMember, err := tx.Projects().IsMember(ctx, *input.ProjectID, *task.ResponsibleUserID)
				if err != nil {
					return fmt.Errorf("failed to check membership: %w", err)
				}
				if !isMember {
					return newError(ErrInvalidState,
						"Responsible user %d is not a member of project %d; unassign the task first",
						*task.ResponsibleUserID, *input.ProjectID)
				}
			}
			fields["project_id"] = *input.ProjectID
		}

		if err := tx.Tasks().Update(ctx, task, fields); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) && input.ProjectID != nil {
				return notFound("Project", *input.ProjectID)
			}
			return fmt.Errorf("failed to update task: %w", err)
		}

		updated, err = findTask(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteTask soft deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, id uint64) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := findTask(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.Tasks().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Infow("task deleted", "task_id", id)
	return nil
}

// AssignResponsible makes a project member the task's responsible user.
// A task whose responsible user still exists must be unassigned first.
func (s *TaskService) AssignResponsible(ctx context.Context, taskID, userID uint64) (*ResponsibleAssignment, error) {
	var result ResponsibleAssignment

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		task, err := findTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		user, err := findUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		project, err := findProject(ctx, tx, task.ProjectID, false)
		if err != nil {
			return err
		}

		isMember, err := tx.Projects().IsMember(ctx, project.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if !isMember {
			return newError(ErrInvalidState,
				"User '%s' is not assigned to project '%s'; assign the user to the project first",
				user.Name, project.Name)
		}

		expected := task.ResponsibleUserID
		if expected != nil {
			current, err := tx.Users().FindByID(ctx, *expected)
			switch {
			case err == nil:
				return newError(ErrInvalidState,
					"Task '%s' already has '%s' as responsible user; unassign first",
					task.Title, current.Name)
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return fmt.Errorf("failed to get responsible user: %w", err)
			}
			// The recorded user is gone, so the slot is free.
		}

		changed, err := tx.Tasks().AssignResponsible(ctx, taskID, userID, expected)
		if err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return newError(ErrIntegrityViolation, "User %d no longer exists", userID)
			}
			return fmt.Errorf("failed to assign responsible user: %w", err)
		}
		if !changed {
			return newError(ErrInvalidState,
				"Task '%s' was assigned concurrently; reload and retry", task.Title)
		}

		updated, err := findTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		result = ResponsibleAssignment{Task: *updated, User: *user, Project: *project}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("responsible user assigned", "task_id", taskID, "user_id", userID)
	return &result, nil
}

// UnassignResponsible clears the task's responsible user
func (s *TaskService) UnassignResponsible(ctx context.Context, taskID uint64) (*ResponsibleUnassignment, error) {
	var result ResponsibleUnassignment

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		task, err := findTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		if task.ResponsibleUserID == nil {
			return newError(ErrInvalidState, "Task '%s' has no responsible user", task.Title)
		}

		previous := constants.DeletedUserName
		if task.ResponsibleUser != nil && task.ResponsibleUser.ID != 0 {
			previous = task.ResponsibleUser.Name
		}

		changed, err := tx.Tasks().ClearResponsible(ctx, taskID, *task.ResponsibleUserID)
		if err != nil {
			return fmt.Errorf("failed to clear responsible user: %w", err)
		}
		if !changed {
			return newError(ErrInvalidState,
				"Task '%s' was changed concurrently; reload and retry", task.Title)
		}

		updated, err := findTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		result = ResponsibleUnassignment{Task: *updated, PreviousUserName: previous}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("responsible user unassigned", "task_id", taskID)
	return &result, nil
}

func ensureProjectExists(ctx context.Context, store repository.Store, id uint64) error {
	exists, err := store.Projects().Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return notFound("Project", id)
	}
	return nil
}

func findTask(ctx context.Context, store repository.Store, id uint64) (*models.Task, error) {
	task, err := store.Tasks().FindByID(ctx, id, "ResponsibleUser")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Task", id)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}
