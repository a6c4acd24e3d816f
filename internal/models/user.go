package models

import (
	"time"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);not null" json:"email"`
	NormEmail    string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Mobile       string    `gorm:"type:varchar(10)" json:"mobile"`
	Gender       Gender    `gorm:"type:varchar(10)" json:"gender"`
	BirthDate    string    `gorm:"type:varchar(10)" json:"birthDate"`
	Age          int       `json:"age"`
	Role         Role      `gorm:"type:varchar(10);not null" json:"role"`
	Archived     bool      `gorm:"not null;default:false" json:"archived"`
	ImageRef     string    `gorm:"type:text" json:"image,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
