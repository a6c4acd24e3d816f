package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/export"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/views"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	log            *zap.Logger
}

func NewProjectHandler(projectService *services.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		log:            log,
	}
}

// CreateProject creates a project; the creator becomes its first OWNER member.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		apierrors.InvalidFormat(c, err.Error())
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), actorID(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project added successfully!",
		"result":  project,
	})
}

// ListProjects returns the aggregated project views, optionally filtered by
// ?userId= membership and ?projectId=.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context(), projectQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Aggregated projects",
		"projects": projects,
	})
}

// ExportProjects streams the project views as a csv or pdf attachment.
func (h *ProjectHandler) ExportProjects(c *gin.Context) {
	format := c.DefaultQuery("format", export.FormatCSV)

	result, err := h.projectService.ExportProjects(c.Request.Context(), projectQuery(c), format)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Body)
}

// UpdateProject applies a partial update to the project named by
// ?projectId= (or ?id=).
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id := c.Query("projectId")
	if id == "" {
		id = c.Query("id")
	}
	if id == "" {
		apierrors.MissingField(c, "Project ID is required")
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		apierrors.InvalidFormat(c, err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), actorID(c), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project updated successfully",
		"result":  project,
	})
}

func projectQuery(c *gin.Context) views.ProjectQuery {
	return views.ProjectQuery{
		UserID:    c.Query("userId"),
		ProjectID: c.Query("projectId"),
	}
}
