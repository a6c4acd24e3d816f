package dto

import (
	"github.com/yukikurage/project-management-api/internal/services"
)

// AssigneeRequest names one assigned user.
type AssigneeRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Name      string            `json:"name" binding:"required"`
	Priority  *int              `json:"priority" binding:"required"`
	Status    *int              `json:"status" binding:"required"`
	CreatedBy string            `json:"createdBy"`
	Users     []AssigneeRequest `json:"users" binding:"omitempty,dive"`
	DueDate   string            `json:"dueDate" binding:"required,isodate"`
	ProjectID string            `json:"projectId" binding:"required"`
}

// ToInput converts the request to service input.
func (r CreateTaskRequest) ToInput() (services.CreateTaskInput, error) {
	dueDate, err := parseOptionalDate(&r.DueDate)
	if err != nil {
		return services.CreateTaskInput{}, err
	}
	return services.CreateTaskInput{
		Name:      r.Name,
		Priority:  r.Priority,
		Status:    r.Status,
		CreatedBy: r.CreatedBy,
		Users:     assigneeIDs(r.Users),
		DueDate:   dueDate,
		ProjectID: r.ProjectID,
	}, nil
}

// UpdateTaskRequest is the body of PUT /api/tasks. A present users list
// replaces the assignments.
type UpdateTaskRequest struct {
	Name      *string            `json:"name"`
	Priority  *int               `json:"priority"`
	Status    *int               `json:"status"`
	DueDate   *string            `json:"dueDate" binding:"omitempty,isodate"`
	Archived  *bool              `json:"archived"`
	ProjectID *string            `json:"projectId"`
	Users     *[]AssigneeRequest `json:"users" binding:"omitempty,dive"`
}

// ToInput converts the request to service input.
func (r UpdateTaskRequest) ToInput() (services.UpdateTaskInput, error) {
	dueDate, err := parseOptionalDate(r.DueDate)
	if err != nil {
		return services.UpdateTaskInput{}, err
	}
	input := services.UpdateTaskInput{
		Name:      r.Name,
		Priority:  r.Priority,
		Status:    r.Status,
		DueDate:   dueDate,
		Archived:  r.Archived,
		ProjectID: r.ProjectID,
	}
	if r.Users != nil {
		ids := assigneeIDs(*r.Users)
		input.Users = &ids
	}
	return input, nil
}

func assigneeIDs(reqs []AssigneeRequest) []string {
	ids := make([]string, len(reqs))
	for i, a := range reqs {
		ids[i] = a.UserID
	}
	return ids
}
