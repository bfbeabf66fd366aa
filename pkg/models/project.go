package model

import (
	"time"

	"gorm.io/gorm"

	"taskboard.com/taskboard/internal/constants"
)

type Project struct {
	ID             uint                    `gorm:"primaryKey" json:"id"`
	OrganizationID uint                    `gorm:"not null;uniqueIndex:idx_projects_org_slug" json:"organization_id"`
	CreatedBy      uint                    `gorm:"not null;index" json:"created_by"`
	Name           string                  `gorm:"size:255;not null" json:"name"`
	Slug           string                  `gorm:"size:255;not null;uniqueIndex:idx_projects_org_slug" json:"slug"`
	Description    *string                 `gorm:"type:text" json:"description"`
	Status         constants.ProjectStatus `gorm:"type:varchar(20);not null;default:planning" json:"status"`
	StartDate      *time.Time              `json:"start_date"`
	EndDate        *time.Time              `json:"end_date"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	DeletedAt      gorm.DeletedAt          `gorm:"index" json:"deleted_at,omitempty"`

	Organization *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Creator      *User         `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Tasks        []Task        `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

// DatesValid enforces end_date >= start_date when both are present.
func (p *Project) DatesValid() bool {
	if p.StartDate == nil || p.EndDate == nil {
		return true
	}
	return !DateOf(*p.EndDate).Before(DateOf(*p.StartDate))
}

func (p *Project) Lifecycle() constants.Lifecycle {
	return lifecycleOf(p.DeletedAt)
}
