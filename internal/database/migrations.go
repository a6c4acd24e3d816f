package database

import (
	"fmt"
	"strings"

	"github.com/yukikurage/project-management-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type indexSpec struct {
	model   interface{}
	table   string
	name    string
	columns []string
}

// compositeIndexes are the listing indexes not expressible as single-column gorm tags.
var compositeIndexes = []indexSpec{
	{&models.Project{}, "projects", "idx_projects_archived_created_at", []string{"archived", "created_at"}},
	{&models.ProjectMember{}, "project_members", "idx_project_members_project_position", []string{"project_id", "position"}},
	{&models.Task{}, "tasks", "idx_tasks_project_archived", []string{"project_id", "archived"}},
	{&models.Task{}, "tasks", "idx_tasks_archived_created_at", []string{"archived", "created_at"}},
	{&models.TaskAssignment{}, "task_assignments", "idx_task_assignments_task_position", []string{"task_id", "position"}},
}

// AddIndexes adds the composite listing indexes, skipping those already present.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
