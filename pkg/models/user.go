package model

import (
	"time"

	"gorm.io/gorm"

	"taskboard.com/taskboard/internal/constants"
)

// User belongs to exactly one organization; OrganizationID is set on create only.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Email          string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash   string         `gorm:"size:255;not null" json:"-"`
	Role           constants.Role `gorm:"type:varchar(20);not null;default:member" json:"role"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}

// IsManager is true for admins as well as managers.
func (u *User) IsManager() bool {
	return u.Role == constants.RoleAdmin || u.Role == constants.RoleManager
}

func (u *User) Lifecycle() constants.Lifecycle {
	return lifecycleOf(u.DeletedAt)
}
