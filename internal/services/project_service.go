package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/project-management-api/internal/access"
	"github.com/yukikurage/project-management-api/internal/config"
	"github.com/yukikurage/project-management-api/internal/export"
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/views"
	"go.uber.org/zap"
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	assembler   *views.Assembler
	roles       *access.Resolver
	emptyPolicy string
	log         *zap.Logger
	now         func() time.Time
}

// NewProjectService creates a new ProjectService.
func NewProjectService(repos *repository.Repositories, assembler *views.Assembler, roles *access.Resolver, emptyPolicy string, log *zap.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: repos.Projects,
		userRepo:    repos.Users,
		assembler:   assembler,
		roles:       roles,
		emptyPolicy: emptyPolicy,
		log:         log,
		now:         time.Now,
	}
}

// MemberInput is one {userId, role} entry of a project's users list.
type MemberInput struct {
	UserID string
	Role   string
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name      string
	Status    *int
	CreatedBy string
	Users     []MemberInput
	DueDate   *time.Time
	Archived  bool
}

// CreateProject validates references, makes the creator an OWNER member
// and stores the project. actorID stands in for an omitted CreatedBy.
func (s *ProjectService) CreateProject(ctx context.Context, actorID string, input CreateProjectInput) (*views.ProjectView, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	if input.Status == nil {
		return nil, validationError("status is required")
	}
	if input.DueDate == nil {
		return nil, validationError("dueDate is required")
	}

	createdBy := input.CreatedBy
	if createdBy == "" {
		createdBy = actorID
	}
	if createdBy == "" {
		return nil, validationError("createdBy is required")
	}

	members, err := parseMembers(input.Users)
	if err != nil {
		return nil, err
	}
	members = ensureCreator(members, createdBy)

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	if err := checkUsers(ctx, s.userRepo, "userIds", ids); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:      name,
		Status:    *input.Status,
		Archived:  input.Archived,
		DueDate:   *input.DueDate,
		CreatedBy: createdBy,
		Users:     members,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.log.Info("project created",
		zap.String("project_id", project.ID),
		zap.String("created_by", createdBy),
		zap.Int("members", len(members)),
	)

	return s.fetch(ctx, project.ID)
}

// UpdateProjectInput represents a partial project update. Nil fields are
// left untouched; a non-nil Users replaces the whole member list.
type UpdateProjectInput struct {
	Name     *string
	Status   *int
	DueDate  *time.Time
	Archived *bool
	Users    *[]MemberInput
}

// UpdateProject applies a partial update after checking that actorID holds
// OWNER or ADMIN in the project. A rejected update changes nothing.
func (s *ProjectService) UpdateProject(ctx context.Context, actorID, projectID string, input UpdateProjectInput) (*views.ProjectView, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.roles.AuthorizeMutation(project, actorID); err != nil {
		s.log.Info("project update rejected",
			zap.String("project_id", projectID),
			zap.String("actor_id", actorID),
		)
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		project.Name = name
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.DueDate != nil {
		project.DueDate = *input.DueDate
	}
	if input.Archived != nil {
		project.Archived = *input.Archived
	}
	if input.Users != nil {
		members, err := parseMembers(*input.Users)
		if err != nil {
			return nil, err
		}
		members = ensureCreator(members, project.CreatedBy)

		ids := make([]string, len(members))
		for i, m := range members {
			ids[i] = m.UserID
		}
		if err := checkUsers(ctx, s.userRepo, "userIds", ids); err != nil {
			return nil, err
		}
		project.Users = members
	}

	if actorID != "" {
		project.UpdatedBy = &actorID
	}
	project.UpdatedAt = s.now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if isNotFound(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.log.Info("project updated", zap.String("project_id", projectID), zap.String("actor_id", actorID))
	return s.fetch(ctx, projectID)
}

// ListProjects returns the project detail views matching q. An empty result
// is an error only under the not_found policy.
func (s *ProjectService) ListProjects(ctx context.Context, q views.ProjectQuery) ([]views.ProjectView, error) {
	projects, err := s.assembler.Projects(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if len(projects) == 0 && s.emptyPolicy == config.EmptyPolicyNotFound {
		return nil, ErrNoProjectsFound
	}
	return projects, nil
}

// ExportResult is a rendered project document.
type ExportResult struct {
	ContentType string
	Filename    string
	Body        []byte
}

// ExportProjects renders the projects matching q as csv or pdf.
func (s *ProjectService) ExportProjects(ctx context.Context, q views.ProjectQuery, format string) (*ExportResult, error) {
	exporter, err := export.ForFormat(format)
	if err != nil {
		return nil, validationError("%v", err)
	}

	projects, err := s.ListProjects(ctx, q)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, projects); err != nil {
		return nil, fmt.Errorf("failed to export projects: %w", err)
	}

	return &ExportResult{
		ContentType: exporter.ContentType(),
		Filename:    "project-details." + exporter.FileExtension(),
		Body:        buf.Bytes(),
	}, nil
}

func (s *ProjectService) fetch(ctx context.Context, id string) (*views.ProjectView, error) {
	view, err := s.assembler.Project(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return view, nil
}

// parseMembers normalizes roles and rejects duplicate user IDs. An omitted
// role defaults to MEMBER.
func parseMembers(in []MemberInput) ([]models.ProjectMember, error) {
	members := make([]models.ProjectMember, 0, len(in)+1)
	seen := make(map[string]struct{}, len(in))

	for i, m := range in {
		userID := strings.TrimSpace(m.UserID)
		if userID == "" {
			return nil, validationError("users[%d].userId is required", i)
		}
		if _, dup := seen[userID]; dup {
			return nil, validationError("user %s is listed more than once", userID)
		}
		seen[userID] = struct{}{}

		role := models.RoleMember
		if m.Role != "" {
			parsed, err := models.ParseRole(m.Role)
			if err != nil {
				return nil, validationError("users[%d].role: %v", i, err)
			}
			role = parsed
		}
		members = append(members, models.ProjectMember{UserID: userID, Role: role})
	}
	return members, nil
}

// ensureCreator prepends the creator as OWNER unless already listed.
func ensureCreator(members []models.ProjectMember, createdBy string) []models.ProjectMember {
	for _, m := range members {
		if m.UserID == createdBy {
			return members
		}
	}
	return append([]models.ProjectMember{{UserID: createdBy, Role: models.RoleOwner}}, members...)
}
