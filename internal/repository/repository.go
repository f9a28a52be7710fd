package repository

import (
	"context"

	"github.com/yukikurage/project-manager-api/internal/models"
	"github.com/yukikurage/project-manager-api/internal/utils"
)

// Store gives access to every repository bound to the same database handle.
// Inside Transaction the repositories handed to fn share one transaction,
// which is committed when fn returns nil and rolled back otherwise.
type Store interface {
	Users() UserRepository
	Projects() ProjectRepository
	Tasks() TaskRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a live user by email, ignoring excludeID when it is not zero
	FindByEmail(ctx context.Context, email string, excludeID uint64) (*models.User, error)

	// List retrieves users with pagination
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)

	// Update writes the given columns of a user
	Update(ctx context.Context, user *models.User, fields map[string]interface{}) error

	// Delete soft deletes a user
	Delete(ctx context.Context, id uint64) error

	// Exists reports whether a live user with the ID exists
	Exists(ctx context.Context, id uint64) (bool, error)

	// CountReferences counts live rows that still point at a user
	CountReferences(ctx context.Context, id uint64) (UserReferences, error)
}

// UserFilter holds options for listing users
type UserFilter struct {
	Pagination utils.PaginationParams
}

// UserReferences counts the rows that keep a user from being deleted
type UserReferences struct {
	ResponsibleTasks int64
	Memberships      int64
}

// Total returns the number of referencing rows
func (r UserReferences) Total() int64 {
	return r.ResponsibleTasks + r.Memberships
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error)

	// FindByName finds a live project by name, ignoring excludeID when it is not zero
	FindByName(ctx context.Context, name string, excludeID uint64) (*models.Project, error)

	// List retrieves projects with their members
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// Update writes the given columns of a project
	Update(ctx context.Context, project *models.Project, fields map[string]interface{}) error

	// Delete removes a project together with its tasks and memberships.
	// Callers run it inside Store.Transaction.
	Delete(ctx context.Context, id uint64) error

	// Exists reports whether a live project with the ID exists
	Exists(ctx context.Context, id uint64) (bool, error)

	// IsMember reports whether the user belongs to the project
	IsMember(ctx context.Context, projectID, userID uint64) (bool, error)

	// AddMember adds a member to a project
	AddMember(ctx context.Context, member *models.ProjectMember) error

	// RemoveMember removes a member and reports whether a row was deleted
	RemoveMember(ctx context.Context, projectID, userID uint64) (bool, error)

	// ListMembers lists all members of a project
	ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMember, error)
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Status     *models.ProjectStatus
	Pagination utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update writes the given columns of a task
	Update(ctx context.Context, task *models.Task, fields map[string]interface{}) error

	// Delete soft deletes a task
	Delete(ctx context.Context, id uint64) error

	// AssignResponsible sets the responsible user only if the current value
	// still equals expected (nil meaning unset). It reports whether the row changed.
	AssignResponsible(ctx context.Context, taskID, userID uint64, expected *uint64) (bool, error)

	// ClearResponsible unsets the responsible user only if it still equals expected.
	ClearResponsible(ctx context.Context, taskID, expected uint64) (bool, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID         *uint64
	Status            *models.TaskStatus
	ResponsibleUserID *uint64
	Pagination        utils.PaginationParams
}
