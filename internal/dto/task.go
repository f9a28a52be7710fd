package dto

import (
	"time"

	"github.com/yukikurage/project-manager-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                uint64              `json:"id"`
	Title             string              `json:"title"`
	Description       *string             `json:"description"`
	Status            models.TaskStatus   `json:"status"`
	Priority          models.TaskPriority `json:"priority"`
	DueDate           *time.Time          `json:"due_date"`
	ProjectID         uint64              `json:"project_id"`
	ResponsibleUserID *uint64             `json:"responsible_user_id"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	ResponsibleUser   *UserDTO            `json:"responsible_user"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:                task.ID,
		Title:             task.Title,
		Description:       task.Description,
		Status:            task.Status,
		Priority:          task.Priority,
		DueDate:           task.DueDate,
		ProjectID:         task.ProjectID,
		ResponsibleUserID: task.ResponsibleUserID,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}

	if task.ResponsibleUser != nil && task.ResponsibleUser.ID != 0 {
		user := ToUserDTO(*task.ResponsibleUser)
		dto.ResponsibleUser = &user
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	result := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		result[i] = ToTaskDTO(t)
	}
	return result
}
