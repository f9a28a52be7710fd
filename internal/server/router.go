// Package server assembles the HTTP router.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/project-manager-api/internal/constants"
	apierrors "github.com/yukikurage/project-manager-api/internal/errors"
	"github.com/yukikurage/project-manager-api/internal/handlers"
	"github.com/yukikurage/project-manager-api/internal/middleware"
	"github.com/yukikurage/project-manager-api/internal/repository"
	"github.com/yukikurage/project-manager-api/internal/services"
)

const healthCheckTimeout = 2 * time.Second

// Dependencies holds what the router needs from the process.
type Dependencies struct {
	DB                 *gorm.DB
	Log                *zap.SugaredLogger
	CORSAllowedOrigins []string
}

// NewRouter wires middleware, handlers and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	handlers.RegisterValidatorTagNames()

	store := repository.NewStore(deps.DB)

	userHandler := handlers.NewUserHandler(services.NewUserService(store, deps.Log), deps.Log)
	projectHandler := handlers.NewProjectHandler(services.NewProjectService(store, deps.Log), deps.Log)
	taskHandler := handlers.NewTaskHandler(services.NewTaskService(store, deps.Log), deps.Log)

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(deps.Log),
		cors.New(corsConfig(deps.CORSAllowedOrigins)),
	)

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	r.GET("/", banner)
	r.GET("/health", healthCheck(deps.DB))

	withID := middleware.RequireIDParams("id")

	api := r.Group("/api/v1")
	{
		users := api.Group("/usuarios")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", withID, userHandler.GetUser)
			users.PUT("/:id", withID, userHandler.UpdateUser)
			users.DELETE("/:id", withID, userHandler.DeleteUser)
		}

		projects := api.Group("/proyectos")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", withID, projectHandler.GetProject)
			projects.PUT("/:id", withID, projectHandler.UpdateProject)
			projects.DELETE("/:id", withID, projectHandler.DeleteProject)
			projects.POST("/:id/asignar_usuario", withID, projectHandler.AssignUser)
			projects.DELETE("/:id/desasignar_usuario/:user_id", middleware.RequireIDParams("id", "user_id"), projectHandler.UnassignUser)
		}

		tasks := api.Group("/tareas")
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/:id", withID, taskHandler.GetTask)
			tasks.PUT("/:id", withID, taskHandler.UpdateTask)
			tasks.DELETE("/:id", withID, taskHandler.DeleteTask)
			tasks.POST("/:id/asignar_usuario", withID, taskHandler.AssignResponsible)
			tasks.DELETE("/:id/desasignar_usuario", withID, taskHandler.UnassignResponsible)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", constants.RequestIDHeader},
		ExposeHeaders: []string{constants.RequestIDHeader, constants.TotalCountHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Project manager API",
		"status":  "operational",
		"version": constants.Version,
		"components": []string{
			"users (/api/v1/usuarios)",
			"projects (/api/v1/proyectos)",
			"tasks (/api/v1/tareas)",
		},
	})
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"service":  constants.ServiceName,
				"database": "unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"service":  constants.ServiceName,
			"database": "ok",
		})
	}
}
