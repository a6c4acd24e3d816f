package models

// ProjectMember is a user's membership entry in a project.
type ProjectMember struct {
	ProjectID string `gorm:"primaryKey;type:varchar(36)" json:"-"`
	UserID    string `gorm:"primaryKey;type:varchar(36);index" json:"userId"`
	Role      Role   `gorm:"type:varchar(10);not null" json:"role"`
	Position  int    `gorm:"not null" json:"-"`
}
