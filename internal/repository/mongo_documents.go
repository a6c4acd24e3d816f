package repository

import (
	"time"

	"github.com/yukikurage/project-management-api/internal/models"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	NormEmail    string    `bson:"norm_email"`
	PasswordHash string    `bson:"password_hash"`
	Mobile       string    `bson:"mobile"`
	Gender       string    `bson:"gender"`
	BirthDate    string    `bson:"birth_date"`
	Age          int       `bson:"age"`
	Role         string    `bson:"role"`
	Archived     bool      `bson:"archived"`
	ImageRef     string    `bson:"image,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		NormEmail:    u.NormEmail,
		PasswordHash: u.PasswordHash,
		Mobile:       u.Mobile,
		Gender:       string(u.Gender),
		BirthDate:    u.BirthDate,
		Age:          u.Age,
		Role:         string(u.Role),
		Archived:     u.Archived,
		ImageRef:     u.ImageRef,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) model() models.User {
	return models.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		NormEmail:    d.NormEmail,
		PasswordHash: d.PasswordHash,
		Mobile:       d.Mobile,
		Gender:       models.Gender(d.Gender),
		BirthDate:    d.BirthDate,
		Age:          d.Age,
		Role:         models.Role(d.Role),
		Archived:     d.Archived,
		ImageRef:     d.ImageRef,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// memberDoc is the embedded {userId, role} entry of a project document.
type memberDoc struct {
	UserID string `bson:"user_id"`
	Role   string `bson:"role"`
}

type projectDoc struct {
	ID        string      `bson:"_id"`
	Name      string      `bson:"name"`
	Status    int         `bson:"status"`
	Archived  bool        `bson:"archived"`
	DueDate   time.Time   `bson:"due_date"`
	CreatedBy string      `bson:"created_by"`
	UpdatedBy *string     `bson:"updated_by"`
	Users     []memberDoc `bson:"users"`
	CreatedAt time.Time   `bson:"created_at"`
	UpdatedAt time.Time   `bson:"updated_at"`
}

func toProjectDoc(p *models.Project) projectDoc {
	members := make([]memberDoc, len(p.Users))
	for i, m := range p.Users {
		members[i] = memberDoc{UserID: m.UserID, Role: string(m.Role)}
	}
	return projectDoc{
		ID:        p.ID,
		Name:      p.Name,
		Status:    p.Status,
		Archived:  p.Archived,
		DueDate:   p.DueDate,
		CreatedBy: p.CreatedBy,
		UpdatedBy: p.UpdatedBy,
		Users:     members,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d projectDoc) model() models.Project {
	members := make([]models.ProjectMember, len(d.Users))
	for i, m := range d.Users {
		members[i] = models.ProjectMember{
			ProjectID: d.ID,
			UserID:    m.UserID,
			Role:      models.Role(m.Role),
			Position:  i,
		}
	}
	return models.Project{
		ID:        d.ID,
		Name:      d.Name,
		Status:    d.Status,
		Archived:  d.Archived,
		DueDate:   d.DueDate,
		CreatedBy: d.CreatedBy,
		UpdatedBy: d.UpdatedBy,
		Users:     members,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// taskDoc stores assignees as a flat list of user IDs.
type taskDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Priority  int       `bson:"priority"`
	Status    int       `bson:"status"`
	Archived  bool      `bson:"archived"`
	CreatedBy string    `bson:"created_by"`
	UpdatedBy *string   `bson:"updated_by"`
	DueDate   time.Time `bson:"due_date"`
	ProjectID string    `bson:"project_id"`
	Users     []string  `bson:"users"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toTaskDoc(t *models.Task) taskDoc {
	return taskDoc{
		ID:        t.ID,
		Name:      t.Name,
		Priority:  t.Priority,
		Status:    t.Status,
		Archived:  t.Archived,
		CreatedBy: t.CreatedBy,
		UpdatedBy: t.UpdatedBy,
		DueDate:   t.DueDate,
		ProjectID: t.ProjectID,
		Users:     t.UserIDs(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (d taskDoc) model() models.Task {
	assignments := models.NewTaskAssignments(d.Users)
	for i := range assignments {
		assignments[i].TaskID = d.ID
	}
	return models.Task{
		ID:        d.ID,
		Name:      d.Name,
		Priority:  d.Priority,
		Status:    d.Status,
		Archived:  d.Archived,
		CreatedBy: d.CreatedBy,
		UpdatedBy: d.UpdatedBy,
		DueDate:   d.DueDate,
		ProjectID: d.ProjectID,
		Users:     assignments,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
