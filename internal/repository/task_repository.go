package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func orderedAssignments(db *gorm.DB) *gorm.DB {
	return db.Order("task_assignments.position ASC")
}

func prepareAssignments(task *models.Task) {
	for i := range task.Users {
		task.Users[i].TaskID = task.ID
		task.Users[i].Position = i
	}
}

// Create creates a new task and its assignments
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	prepareAssignments(task)

	return translateGormError(r.db.WithContext(ctx).Create(task).Error)
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Preload("Users", orderedAssignments).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return &task, nil
}

// List retrieves tasks with filtering
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	if filter.ProjectIDs != nil && len(filter.ProjectIDs) == 0 {
		return []models.Task{}, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Task{})
	if !filter.IncludeArchived {
		query = query.Scopes(database.NotArchived("tasks"))
	}
	if filter.ProjectIDs != nil {
		query = query.Where("tasks.project_id IN ?", filter.ProjectIDs)
	}

	var tasks []models.Task
	err := query.
		Preload("Users", orderedAssignments).
		Order("tasks.created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, translateGormError(err)
	}

	return tasks, nil
}

// Update updates a task and rewrites its assignments in one transaction
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	prepareAssignments(task)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Task{}).Where("id = ?", task.ID).Select("*").Omit("Users", "CreatedAt").Updates(task)
		if res.Error != nil {
			return translateGormError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return translateGormError(err)
		}
		if len(task.Users) == 0 {
			return nil
		}
		return translateGormError(tx.Create(&task.Users).Error)
	})
}
