package dto

import (
	"time"

	"github.com/yukikurage/project-manager-api/internal/models"
)

// ProjectDTO represents a project with its members in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Members     []UserDTO            `json:"members"`
}

// ToProjectDTO converts a Project model to ProjectDTO. Members are taken from
// the preloaded Members relation.
func ToProjectDTO(project models.Project) ProjectDTO {
	members := make([]UserDTO, 0, len(project.Members))
	for _, m := range project.Members {
		if m.User.ID == 0 {
			continue
		}
		members = append(members, ToUserDTO(m.User))
	}

	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Members:     members,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	result := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		result[i] = ToProjectDTO(p)
	}
	return result
}
