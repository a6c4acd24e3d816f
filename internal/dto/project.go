package dto

import (
	"github.com/yukikurage/project-management-api/internal/services"
)

// MemberRequest is one entry of a project's users list.
type MemberRequest struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"omitempty,role"`
}

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	Name      string          `json:"name" binding:"required"`
	Status    *int            `json:"status" binding:"required"`
	CreatedBy string          `json:"createdBy"`
	Users     []MemberRequest `json:"users" binding:"omitempty,dive"`
	DueDate   string          `json:"dueDate" binding:"required,isodate"`
	Archived  bool            `json:"archived"`
}

// ToInput converts the request to service input.
func (r CreateProjectRequest) ToInput() (services.CreateProjectInput, error) {
	dueDate, err := parseOptionalDate(&r.DueDate)
	if err != nil {
		return services.CreateProjectInput{}, err
	}
	return services.CreateProjectInput{
		Name:      r.Name,
		Status:    r.Status,
		CreatedBy: r.CreatedBy,
		Users:     toMemberInputs(r.Users),
		DueDate:   dueDate,
		Archived:  r.Archived,
	}, nil
}

// UpdateProjectRequest is the body of PUT /api/projects. A present users
// list replaces the membership.
type UpdateProjectRequest struct {
	Name     *string          `json:"name"`
	Status   *int             `json:"status"`
	DueDate  *string          `json:"dueDate" binding:"omitempty,isodate"`
	Archived *bool            `json:"archived"`
	Users    *[]MemberRequest `json:"users" binding:"omitempty,dive"`
}

// ToInput converts the request to service input.
func (r UpdateProjectRequest) ToInput() (services.UpdateProjectInput, error) {
	dueDate, err := parseOptionalDate(r.DueDate)
	if err != nil {
		return services.UpdateProjectInput{}, err
	}
	input := services.UpdateProjectInput{
		Name:     r.Name,
		Status:   r.Status,
		DueDate:  dueDate,
		Archived: r.Archived,
	}
	if r.Users != nil {
		members := toMemberInputs(*r.Users)
		input.Users = &members
	}
	return input, nil
}

func toMemberInputs(reqs []MemberRequest) []services.MemberInput {
	members := make([]services.MemberInput, len(reqs))
	for i, m := range reqs {
		members[i] = services.MemberInput{UserID: m.UserID, Role: m.Role}
	}
	return members
}
