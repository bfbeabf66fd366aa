package model

import (
	"time"

	"gorm.io/gorm"

	"taskboard.com/taskboard/internal/constants"
)

type Organization struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Slug        string         `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description *string        `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (o *Organization) Lifecycle() constants.Lifecycle {
	return lifecycleOf(o.DeletedAt)
}
