package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/project-manager-api/internal/database"
	"github.com/yukikurage/project-manager-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// preloadMembers loads members in the order they joined.
func preloadMembers(db *gorm.DB) *gorm.DB {
	return db.Order("project_members.created_at ASC, project_members.user_id ASC")
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return translateError(r.db.WithContext(ctx).Omit("Members").Create(project).Error)
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		if p == "Members" {
			query = query.Preload(p, preloadMembers)
			continue
		}
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// FindByName finds a live project by name
func (r *GormProjectRepository) FindByName(ctx context.Context, name string, excludeID uint64) (*models.Project, error) {
	var project models.Project
	query := r.db.WithContext(ctx).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects with their members
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.Status != nil {
		query = query.Where("projects.status = ?", *filter.Status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	projects := []models.Project{}
	if err := query.Scopes(database.Paginate(filter.Pagination)).
		Preload("Members", preloadMembers).
		Preload("Members.User").
		Order("projects.id ASC").
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update writes the given columns of a project
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Model(project).Omit("Members").Updates(fields).Error)
}

// Delete soft deletes the project's tasks, drops its memberships and soft
// deletes the project itself
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return translateError(err)
	}

	if err := db.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
		return translateError(err)
	}

	return translateError(db.Delete(&models.Project{}, id).Error)
}

// Exists reports whether a live project with the ID exists
func (r *GormProjectRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// IsMember reports whether the user belongs to the project
func (r *GormProjectRepository) IsMember(ctx context.Context, projectID, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(ctx context.Context, member *models.ProjectMember) error {
	return translateError(r.db.WithContext(ctx).Omit("User").Create(member).Error)
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(ctx context.Context, projectID, userID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListMembers lists all members of a project
func (r *GormProjectRepository) ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.WithContext(ctx).Preload("User").
		Where("project_id = ?", projectID).
		Scopes(preloadMembers).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
