package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/project-manager-api/internal/database"
	"github.com/yukikurage/project-manager-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a live user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string, excludeID uint64) (*models.User, error) {
	var user models.User
	query := r.db.WithContext(ctx).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users ordered by ID
func (r *GormUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := []models.User{}
	if err := query.Scopes(database.Paginate(filter.Pagination)).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update writes the given columns of a user
func (r *GormUserRepository) Update(ctx context.Context, user *models.User, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).Model(user).Updates(fields).Error)
}

// Delete soft deletes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	return translateError(r.db.WithContext(ctx).Delete(&models.User{}, id).Error)
}

// Exists reports whether a live user with the ID exists
func (r *GormUserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CountReferences counts live tasks the user is responsible for and live
// projects the user is a member of
func (r *GormUserRepository) CountReferences(ctx context.Context, id uint64) (UserReferences, error) {
	var refs UserReferences

	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("responsible_user_id = ?", id).
		Count(&refs.ResponsibleTasks).Error; err != nil {
		return refs, err
	}

	if err := r.db.WithContext(ctx).Model(&models.ProjectMember{}).
		Joins("JOIN projects ON projects.id = project_members.project_id AND projects.deleted_at IS NULL").
		Where("project_members.user_id = ?", id).
		Count(&refs.Memberships).Error; err != nil {
		return refs, err
	}

	return refs, nil
}
