package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func orderedMembers(db *gorm.DB) *gorm.DB {
	return db.Order("project_members.position ASC")
}

func prepareMembers(project *models.Project) {
	for i := range project.Users {
		project.Users[i].ProjectID = project.ID
		project.Users[i].Position = i
	}
}

// Create creates a new project and its members
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	prepareMembers(project)

	return translateGormError(r.db.WithContext(ctx).Create(project).Error)
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Preload("Users", orderedMembers).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &project, nil
}

// List retrieves projects with filtering
func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	if filter.ProjectIDs != nil && len(filter.ProjectIDs) == 0 {
		return []models.Project{}, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Project{})

	if !filter.IncludeArchived {
		query = query.Scopes(database.NotArchived("projects"))
	}
	if filter.ProjectID != "" {
		query = query.Where("projects.id = ?", filter.ProjectID)
	}
	if filter.ProjectIDs != nil {
		query = query.Where("projects.id IN ?", filter.ProjectIDs)
	}
	if filter.MemberID != "" {
		memberSubQuery := r.db.Model(&models.ProjectMember{}).
			Select("1").
			Where("project_members.project_id = projects.id").
			Where("project_members.user_id = ?", filter.MemberID)
		query = query.Where("EXISTS (?)", memberSubQuery)
	}

	var projects []models.Project
	err := query.
		Preload("Users", orderedMembers).
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, translateGormError(err)
	}

	return projects, nil
}

// Update updates a project and rewrites its member list in one transaction
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	prepareMembers(project)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).Where("id = ?", project.ID).Select("*").Omit("Users", "CreatedAt").Updates(project)
		if res.Error != nil {
			return translateGormError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return translateGormError(err)
		}
		if len(project.Users) == 0 {
			return nil
		}
		return translateGormError(tx.Create(&project.Users).Error)
	})
}
