package dto

import (
	"github.com/yukikurage/project-management-api/internal/models"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/utils"
)

// RegisterUserRequest is the body of POST /api/users. It binds from JSON or
// from multipart form fields.
type RegisterUserRequest struct {
	Name      string `json:"name" form:"name" binding:"required"`
	Email     string `json:"email" form:"email" binding:"required,email"`
	Password  string `json:"password" form:"password" binding:"required,min=6"`
	Mobile    string `json:"mobile" form:"mobile" binding:"omitempty,len=10,numeric"`
	Gender    string `json:"gender" form:"gender" binding:"omitempty,gender"`
	BirthDate string `json:"birthDate" form:"birthDate" binding:"omitempty,datetime=2006-01-02"`
}

// ToInput converts the request to service input.
func (r RegisterUserRequest) ToInput(image *services.ImageUpload) services.RegisterInput {
	return services.RegisterInput{
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		Mobile:    r.Mobile,
		Gender:    r.Gender,
		BirthDate: r.BirthDate,
		Image:     image,
	}
}

// UpdateUserRequest is the body of PUT /api/users. Absent fields are left
// untouched.
type UpdateUserRequest struct {
	Name      *string `json:"name" form:"name"`
	Email     *string `json:"email" form:"email" binding:"omitempty,email"`
	Password  *string `json:"password" form:"password" binding:"omitempty,min=6"`
	Mobile    *string `json:"mobile" form:"mobile" binding:"omitempty,len=10,numeric"`
	Gender    *string `json:"gender" form:"gender" binding:"omitempty,gender"`
	BirthDate *string `json:"birthDate" form:"birthDate" binding:"omitempty,datetime=2006-01-02"`
	Role      *string `json:"role" form:"role" binding:"omitempty,role"`
	Archived  *bool   `json:"archived" form:"archived"`
}

// ToInput converts the request to service input.
func (r UpdateUserRequest) ToInput(image *services.ImageUpload) services.UpdateUserInput {
	return services.UpdateUserInput{
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		Mobile:    r.Mobile,
		Gender:    r.Gender,
		BirthDate: r.BirthDate,
		Role:      r.Role,
		Archived:  r.Archived,
		Image:     image,
	}
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserListResponse is one page of users.
type UserListResponse struct {
	Message    string                   `json:"message"`
	Users      []models.User            `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}
