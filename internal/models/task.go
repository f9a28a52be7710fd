package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
)

type Task struct {
	ID                uint64         `gorm:"primarykey" json:"id"`
	Title             string         `gorm:"type:varchar(200);not null;index" json:"title"`
	Description       *string        `gorm:"type:text" json:"description"`
	Status            TaskStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority          TaskPriority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate           *time.Time     `json:"due_date"`
	ProjectID         uint64         `gorm:"not null;index" json:"project_id"`
	ResponsibleUserID *uint64        `gorm:"index" json:"responsible_user_id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project         Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	ResponsibleUser *User   `gorm:"foreignKey:ResponsibleUserID;constraint:OnDelete:SET NULL" json:"responsible_user,omitempty"`
}
