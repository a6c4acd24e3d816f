package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/auth"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Projects *ProjectHandler
	Tasks    *TaskHandler
	Health   *HealthHandler
}

// NewRouter builds the gin engine with all API routes.
func NewRouter(h Handlers, tokens *auth.TokenService, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.GET("/health", h.Health.Check)

	requireAuth := middleware.RequireAuth(tokens)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", h.Auth.Login)
			authGroup.GET("/me", requireAuth, h.Auth.GetCurrentUser)
		}

		users := api.Group("/users")
		{
			users.POST("", h.Users.Register)
			users.GET("", requireAuth, h.Users.ListUsers)
			users.PUT("", requireAuth, h.Users.UpdateUser)
		}

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", h.Projects.CreateProject)
			projects.GET("", h.Projects.ListProjects)
			projects.GET("/export", h.Projects.ExportProjects)
			projects.PUT("", h.Projects.UpdateProject)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.POST("", h.Tasks.CreateTask)
			tasks.GET("", h.Tasks.ListTasks)
			tasks.PUT("", h.Tasks.UpdateTask)
		}
	}

	return r
}
