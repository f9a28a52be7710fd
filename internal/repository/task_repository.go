package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/project-manager-api/internal/database"
	"github.com/yukikurage/project-manager-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return translateError(r.db.WithContext(ctx).Omit("Project", "ResponsibleUser").Create(task).Error)
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{})

	// Apply filters
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.ResponsibleUserID != nil {
		query = query.Where("tasks.responsible_user_id = ?", *filter.ResponsibleUserID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	if err := query.Scopes(database.Paginate(filter.Pagination)).
		Preload("ResponsibleUser").
		Order("tasks.id ASC").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update writes the given columns of a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Model(task).Omit("Project", "ResponsibleUser").Updates(fields).Error)
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return translateError(r.db.WithContext(ctx).Delete(&models.Task{}, id).Error)
}

// AssignResponsible is a compare-and-set on responsible_user_id
func (r *GormTaskRepository) AssignResponsible(ctx context.Context, taskID, userID uint64, expected *uint64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", taskID)
	if expected == nil {
		query = query.Where("responsible_user_id IS NULL")
	} else {
		query = query.Where("responsible_user_id = ?", *expected)
	}

	result := query.Update("responsible_user_id", userID)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// ClearResponsible is a compare-and-set that unsets responsible_user_id
func (r *GormTaskRepository) ClearResponsible(ctx context.Context, taskID, expected uint64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND responsible_user_id = ?", taskID, expected).
		Update("responsible_user_id", nil)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}
