package models

import (
	"time"
)

type Project struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Status    int       `gorm:"not null" json:"status"`
	Archived  bool      `gorm:"not null;default:false;index" json:"archived"`
	DueDate   time.Time `gorm:"not null" json:"dueDate"`
	CreatedBy string    `gorm:"type:varchar(36);not null;index" json:"createdBy"`
	UpdatedBy *string   `gorm:"type:varchar(36)" json:"updatedBy"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Users is ordered by insertion; the first entry is normally the creator.
	Users []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"users"`
}

// MemberRole returns the project-scoped role stored for userID.
func (p *Project) MemberRole(userID string) (Role, bool) {
	for _, m := range p.Users {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// MemberIDs returns the member user IDs in list order.
func (p *Project) MemberIDs() []string {
	ids := make([]string, len(p.Users))
	for i, m := range p.Users {
		ids[i] = m.UserID
	}
	return ids
}
