package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/project-manager-api/internal/dto"
	"github.com/yukikurage/project-manager-api/internal/models"
	"github.com/yukikurage/project-manager-api/internal/services"
	"github.com/yukikurage/project-manager-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         *zap.SugaredLogger
}

func NewTaskHandler(taskService *services.TaskService, log *zap.SugaredLogger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log.Named("handler.task"),
	}
}

// ListTasks returns tasks, filterable by project, status and responsible user
func (h *TaskHandler) ListTasks(c *gin.Context) {
	type ListTasksQuery struct {
		ProjectID         *uint64           `form:"project_id" binding:"omitempty,gt=0"`
		Status            models.TaskStatus `form:"status" binding:"omitempty,oneof=pending in_progress completed"`
		ResponsibleUserID *uint64           `form:"responsible_user_id" binding:"omitempty,gt=0"`
	}

	var query ListTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	input := services.ListTasksInput{
		ProjectID:         query.ProjectID,
		ResponsibleUserID: query.ResponsibleUserID,
		Pagination:        utils.GetPaginationParams(c),
	}
	if query.Status != "" {
		input.Status = &query.Status
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	setTotalCount(c, total)
	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), pathID(c, "id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required,min=3,max=200"`
		Description *string             `json:"description" binding:"omitempty,max=1000"`
		Status      models.TaskStatus   `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
		Priority    models.TaskPriority `json:"priority" binding:"omitempty,oneof=high medium low"`
		DueDate     *time.Time          `json:"due_date"`
		ProjectID   uint64              `json:"project_id" binding:"required,gt=0"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title       *string              `json:"title" binding:"omitempty,min=3,max=200"`
		Description *string              `json:"description" binding:"omitempty,max=1000"`
		Status      *models.TaskStatus   `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
		Priority    *models.TaskPriority `json:"priority" binding:"omitempty,oneof=high medium low"`
		DueDate     *time.Time           `json:"due_date"`
		ProjectID   *uint64              `json:"project_id" binding:"omitempty,gt=0"`
	}

	var req UpdateTaskRequest
	nulls, err := bindPartialJSON(c, &req)
	if err != nil {
		respondBindError(c, err)
		return
	}
	if rejectNulls(c, nulls, "title", "status", "priority", "project_id") {
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), pathID(c, "id"), services.UpdateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		ClearDescription: nulls["description"],
		Status:           req.Status,
		Priority:         req.Priority,
		DueDate:          req.DueDate,
		ClearDueDate:     nulls["due_date"],
		ProjectID:        req.ProjectID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), pathID(c, "id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignResponsible sets the task's responsible user
func (h *TaskHandler) AssignResponsible(c *gin.Context) {
	var req AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.taskService.AssignResponsible(c.Request.Context(), pathID(c, "id"), req.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("User '%s' is now responsible for task '%s'", result.User.Name, result.Task.Title),
		Data: dto.TaskAssignmentData{
			TaskID:      result.Task.ID,
			UserID:      result.User.ID,
			TaskTitle:   result.Task.Title,
			UserName:    result.User.Name,
			ProjectName: result.Project.Name,
		},
	})
}

// UnassignResponsible clears the task's responsible user
func (h *TaskHandler) UnassignResponsible(c *gin.Context) {
	result, err := h.taskService.UnassignResponsible(c.Request.Context(), pathID(c, "id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("User '%s' is no longer responsible for task '%s'", result.PreviousUserName, result.Task.Title),
		Data: dto.TaskUnassignmentData{
			TaskID:       result.Task.ID,
			TaskTitle:    result.Task.Title,
			PreviousUser: result.PreviousUserName,
		},
	})
}
