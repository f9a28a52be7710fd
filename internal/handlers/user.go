package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/project-manager-api/internal/dto"
	"github.com/yukikurage/project-manager-api/internal/models"
	"github.com/yukikurage/project-manager-api/internal/services"
	"github.com/yukikurage/project-manager-api/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
	log         *zap.SugaredLogger
}

func NewUserHandler(userService *services.UserService, log *zap.SugaredLogger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log.Named("handler.user"),
	}
}

// CreateUser creates a new user
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Name  string          `json:"name" binding:"required,min=2,max=100"`
		Email string          `json:"email" binding:"required,email"`
		Role  models.UserRole `json:"role" binding:"omitempty,oneof=admin manager developer"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), services.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// ListUsers returns a page of users
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	setTotalCount(c, total)
	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetUser returns a specific user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), pathID(c, "id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser applies the fields present in the body
func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Name  *string          `json:"name" binding:"omitempty,min=2,max=100"`
		Email *string          `json:"email" binding:"omitempty,email"`
		Role  *models.UserRole `json:"role" binding:"omitempty,oneof=admin manager developer"`
	}

	var req UpdateUserRequest
	nulls, err := bindPartialJSON(c, &req)
	if err != nil {
		respondBindError(c, err)
		return
	}
	if rejectNulls(c, nulls, "name", "email", "role") {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), pathID(c, "id"), services.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser deletes a user that no task or project references
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), pathID(c, "id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}
