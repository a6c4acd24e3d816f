package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/access"
	"github.com/yukikurage/project-management-api/internal/config"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/utils"
	"github.com/yukikurage/project-management-api/internal/views"
	"go.uber.org/zap"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	assembler   *views.Assembler
	roles       *access.Resolver
	// enforceRoles applies the project OWNER/ADMIN check to task writes.
	enforceRoles bool
	emptyPolicy  string
	log          *zap.Logger
	now          func() time.Time
}

// TaskServiceOptions holds the configurable task policies.
type TaskServiceOptions struct {
	EnforceRoles bool
	EmptyPolicy  string
}

// NewTaskService creates a new TaskService
func NewTaskService(repos *repository.Repositories, assembler *views.Assembler, roles *access.Resolver, opts TaskServiceOptions, log *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo:     repos.Tasks,
		projectRepo:  repos.Projects,
		userRepo:     repos.Users,
		assembler:    assembler,
		roles:        roles,
		enforceRoles: opts.EnforceRoles,
		emptyPolicy:  opts.EmptyPolicy,
		log:          log,
		now:          time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name      string
	Priority  *int
	Status    *int
	CreatedBy string
	Users     []string
	DueDate   *time.Time
	ProjectID string
}

// CreateTask validates the project and user references and stores the task.
func (s *TaskService) CreateTask(ctx context.Context, actorID string, input CreateTaskInput) (*views.TaskView, error) {
	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		return nil, validationError("name is required")
	case input.Priority == nil:
		return nil, validationError("priority is required")
	case input.Status == nil:
		return nil, validationError("status is required")
	case input.DueDate == nil:
		return nil, validationError("dueDate is required")
	case strings.TrimSpace(input.ProjectID) == "":
		return nil, validationError("projectId is required")
	}

	createdBy := input.CreatedBy
	if createdBy == "" {
		createdBy = actorID
	}
	if createdBy == "" {
		return nil, validationError("createdBy is required")
	}

	project, err := loadActiveProject(ctx, s.projectRepo, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(project, actorID); err != nil {
		return nil, err
	}

	assignees := utils.UniqueStrings(input.Users)
	if err := checkUsers(ctx, s.userRepo, "userIds", append([]string{createdBy}, assignees...)); err != nil {
		return nil, err
	}

	task := &models.Task{
		Name:      name,
		Priority:  *input.Priority,
		Status:    *input.Status,
		CreatedBy: createdBy,
		DueDate:   *input.DueDate,
		ProjectID: project.ID,
		Users:     models.NewTaskAssignments(assignees),
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("project_id", task.ProjectID),
		zap.Int("assignees", len(assignees)),
	)

	return s.fetch(ctx, task.ID)
}

// UpdateTaskInput represents a partial task update. Nil fields are left
// untouched; a non-nil Users replaces all assignments.
type UpdateTaskInput struct {
	Name      *string
	Priority  *int
	Status    *int
	DueDate   *time.Time
	Archived  *bool
	ProjectID *string
	Users     *[]string
}

// UpdateTask applies a partial update to task id.
func (s *TaskService) UpdateTask(ctx context.Context, actorID, id string, input UpdateTaskInput) (*views.TaskView, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if s.enforceRoles {
		current, err := s.projectRepo.FindByID(ctx, task.ProjectID)
		if err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to find project: %w", err)
		}
		if err := s.authorize(current, actorID); err != nil {
			return nil, err
		}
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		task.Name = name
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Archived != nil {
		task.Archived = *input.Archived
	}
	if input.ProjectID != nil && *input.ProjectID != task.ProjectID {
		target, err := loadActiveProject(ctx, s.projectRepo, *input.ProjectID)
		if err != nil {
			return nil, err
		}
		if err := s.authorize(target, actorID); err != nil {
			return nil, err
		}
		task.ProjectID = target.ID
	}
	if input.Users != nil {
		assignees := utils.UniqueStrings(*input.Users)
		if err := checkUsers(ctx, s.userRepo, "userIds", assignees); err != nil {
			return nil, err
		}
		task.Users = models.NewTaskAssignments(assignees)
	}

	if actorID != "" {
		task.UpdatedBy = &actorID
	}
	task.UpdatedAt = s.now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if isNotFound(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.log.Info("task updated", zap.String("task_id", id), zap.String("actor_id", actorID))
	return s.fetch(ctx, id)
}

// ListTasks returns the task list views matching q. An empty result is an
// error only under the not_found policy.
func (s *TaskService) ListTasks(ctx context.Context, q views.TaskQuery) ([]views.TaskView, error) {
	tasks, err := s.assembler.Tasks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 && s.emptyPolicy == config.EmptyPolicyNotFound {
		return nil, ErrNoTasksFound
	}
	return tasks, nil
}

// authorize applies the project role check when task role enforcement is
// on. A task whose project no longer exists cannot be authorized.
func (s *TaskService) authorize(project *models.Project, actorID string) error {
	if !s.enforceRoles {
		return nil
	}
	if project == nil {
		return fmt.Errorf("%w: task project no longer exists", ErrUnauthorized)
	}
	if err := s.roles.AuthorizeMutation(project, actorID); err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}

func (s *TaskService) fetch(ctx context.Context, id string) (*views.TaskView, error) {
	view, err := s.assembler.Task(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}
	return view, nil
}
