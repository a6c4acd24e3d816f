package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateKey is returned when a write violates a unique index.
	ErrDuplicateKey = errors.New("repository: duplicate key")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user, assigning an ID when empty
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByIDs loads every user whose ID is in ids in a single round trip.
	// Unknown IDs are silently absent from the result.
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)

	// FindByEmail finds a user by case-insensitive email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves users with pagination
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)

	// Update persists every field of user
	Update(ctx context.Context, user *models.User) error
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	IncludeArchived bool
	Offset          int
	Limit           int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project together with its ordered member list
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID, archived or not, with members loaded
	FindByID(ctx context.Context, id string) (*models.Project, error)

	// List retrieves projects newest first
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, error)

	// Update persists the project and replaces its member list
	Update(ctx context.Context, project *models.Project) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	// MemberID restricts to projects listing this user in their members.
	MemberID string
	// ProjectID restricts to a single project.
	ProjectID string
	// ProjectIDs restricts to a set of projects. A nil slice means no
	// restriction; an empty non-nil slice matches nothing.
	ProjectIDs      []string
	IncludeArchived bool
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task together with its assignments
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID, archived or not, with assignments loaded
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves tasks newest first
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update persists the task and replaces its assignments
	Update(ctx context.Context, task *models.Task) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// ProjectIDs restricts to tasks of these projects. A nil slice means no
	// restriction; an empty non-nil slice matches nothing.
	ProjectIDs      []string
	IncludeArchived bool
}

// Repositories bundles the three aggregate repositories of one backend.
type Repositories struct {
	Users    UserRepository
	Projects ProjectRepository
	Tasks    TaskRepository
}

// New builds GORM-backed repositories on db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(db),
		Projects: NewProjectRepository(db),
		Tasks:    NewTaskRepository(db),
	}
}

// NewMongo builds MongoDB-backed repositories on db.
func NewMongo(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:    NewMongoUserRepository(db),
		Projects: NewMongoProjectRepository(db),
		Tasks:    NewMongoTaskRepository(db),
	}
}

func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}

// isUniqueViolation recognizes unique-index failures from drivers that do
// not go through gorm's error translator.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}
