package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-management-api/internal/dto"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/views"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         *zap.Logger
}

func NewTaskHandler(taskService *services.TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// CreateTask creates a task in an existing, non-archived project.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		apierrors.InvalidFormat(c, err.Error())
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actorID(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task added successfully!",
		"result":  task,
	})
}

// ListTasks returns the task views, optionally limited to ?projectId=.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(c.Request.Context(), views.TaskQuery{
		ProjectID: c.Query("projectId"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tasks retrieved successfully",
		"tasks":   tasks,
	})
}

// UpdateTask applies a partial update to the task named by ?id=.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		apierrors.MissingField(c, "Task ID is required")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		apierrors.InvalidFormat(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), actorID(c), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    task,
	})
}
