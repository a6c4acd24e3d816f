package models

import (
	"time"
)

type Task struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Priority  int       `gorm:"not null" json:"priority"`
	Status    int       `gorm:"not null" json:"status"`
	Archived  bool      `gorm:"not null;default:false;index" json:"archived"`
	CreatedBy string    `gorm:"type:varchar(36);not null" json:"createdBy"`
	UpdatedBy *string   `gorm:"type:varchar(36)" json:"updatedBy"`
	DueDate   time.Time `gorm:"not null" json:"dueDate"`
	ProjectID string    `gorm:"type:varchar(36);not null;index" json:"projectId"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Users []TaskAssignment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"users"`
}

// UserIDs returns the assigned user IDs in assignment order.
func (t *Task) UserIDs() []string {
	ids := make([]string, len(t.Users))
	for i, a := range t.Users {
		ids[i] = a.UserID
	}
	return ids
}
