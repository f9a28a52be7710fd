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

type ProjectHandler struct {
	projectService *services.ProjectService
	log            *zap.SugaredLogger
}

func NewProjectHandler(projectService *services.ProjectService, log *zap.SugaredLogger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		log:            log.Named("handler.project"),
	}
}

// AssignUserRequest is the body of both assignment endpoints
type AssignUserRequest struct {
	UserID uint64 `json:"user_id" binding:"required,gt=0"`
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name        string               `json:"name" binding:"required,min=3,max=200"`
		Description *string              `json:"description" binding:"omitempty,max=1000"`
		Status      models.ProjectStatus `json:"status" binding:"omitempty,oneof=active paused completed"`
		EndDate     *time.Time           `json:"end_date"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns projects with their members, optionally by status
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	type ListProjectsQuery struct {
		Status models.ProjectStatus `form:"status" binding:"omitempty,oneof=active paused completed"`
	}

	var query ListProjectsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}

	var status *models.ProjectStatus
	if query.Status != "" {
		status = &query.Status
	}

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), status, utils.GetPaginationParams(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	setTotalCount(c, total)
	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

// GetProject returns a specific project by ID
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Request.Context(), pathID(c, "id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject applies the fields present in the body
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name        *string               `json:"name" binding:"omitempty,min=3,max=200"`
		Description *string               `json:"description" binding:"omitempty,max=1000"`
		Status      *models.ProjectStatus `json:"status" binding:"omitempty,oneof=active paused completed"`
		EndDate     *time.Time            `json:"end_date"`
	}

	var req UpdateProjectRequest
	nulls, err := bindPartialJSON(c, &req)
	if err != nil {
		respondBindError(c, err)
		return
	}
	if rejectNulls(c, nulls, "name", "status") {
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), pathID(c, "id"), services.UpdateProjectInput{
		Name:             req.Name,
		Description:      req.Description,
		ClearDescription: nulls["description"],
		Status:           req.Status,
		EndDate:          req.EndDate,
		ClearEndDate:     nulls["end_date"],
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.DeleteProject(c.Request.Context(), pathID(c, "id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignUser adds a user to the project's members
func (h *ProjectHandler) AssignUser(c *gin.Context) {
	var req AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	change, err := h.projectService.AssignUser(c.Request.Context(), pathID(c, "id"), req.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("User '%s' assigned to project '%s'", change.User.Name, change.Project.Name),
		Data:    projectAssignmentData(change),
	})
}

// UnassignUser removes a user from the project's members
func (h *ProjectHandler) UnassignUser(c *gin.Context) {
	change, err := h.projectService.UnassignUser(c.Request.Context(), pathID(c, "id"), pathID(c, "user_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("User '%s' unassigned from project '%s'", change.User.Name, change.Project.Name),
		Data:    projectAssignmentData(change),
	})
}

func projectAssignmentData(change *services.MembershipChange) dto.ProjectAssignmentData {
	return dto.ProjectAssignmentData{
		ProjectID:   change.Project.ID,
		UserID:      change.User.ID,
		ProjectName: change.Project.Name,
		UserName:    change.User.Name,
	}
}
