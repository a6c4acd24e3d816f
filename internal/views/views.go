// Package views assembles denormalized read models from projects, tasks and
// users. References are soft: a missing user renders as "N/A" and a missing
// project as null, never as an error.
package views

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

// UserRef is the {id, name, email} projection of a user.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreatorView is the project creator. The role is always OWNER.
type CreatorView struct {
	UserRef
	Role models.Role `json:"role"`
}

// UpdaterView is the last project mutator with the role they hold in the
// project, or null when they hold none.
type UpdaterView struct {
	UserRef
	Role *models.Role `json:"role"`
}

// MemberView is one resolved entry of a project's users list.
type MemberView struct {
	UserID string      `json:"userId"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
}

// ProjectTaskView is the light task projection nested under a project.
type ProjectTaskView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    int       `json:"status"`
	Assignees []string  `json:"assignees"`
	CreatedAt time.Time `json:"-"`
}

// ProjectView is the project detail read model.
type ProjectView struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Status    int               `json:"status"`
	Archived  bool              `json:"archived"`
	DueDate   time.Time         `json:"dueDate"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	CreatedBy CreatorView       `json:"createdBy"`
	UpdatedBy *UpdaterView      `json:"updatedBy"`
	Users     []MemberView      `json:"users"`
	Tasks     []ProjectTaskView `json:"tasks"`
}

// TaskProjectView is the project summary nested under a task.
type TaskProjectView struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Status  int          `json:"status"`
	DueDate time.Time    `json:"dueDate"`
	Members []MemberView `json:"members"`
}

// TaskView is the task list read model.
type TaskView struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Priority  int              `json:"priority"`
	Status    int              `json:"status"`
	Archived  bool             `json:"archived"`
	DueDate   time.Time        `json:"dueDate"`
	ProjectID string           `json:"projectId"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	CreatedBy UserRef          `json:"createdBy"`
	UpdatedBy *UserRef         `json:"updatedBy"`
	Users     []UserRef        `json:"users"`
	Project   *TaskProjectView `json:"project"`
}
