package model

import (
	"time"

	"gorm.io/gorm"

	"taskboard.com/taskboard/internal/constants"
)

type Task struct {
	ID             uint                   `gorm:"primaryKey" json:"id"`
	ProjectID      uint                   `gorm:"not null;index" json:"project_id"`
	CreatedBy      uint                   `gorm:"not null;index" json:"created_by"`
	AssignedTo     *uint                  `gorm:"index" json:"assigned_to"`
	Title          string                 `gorm:"size:255;not null" json:"title"`
	Description    *string                `gorm:"type:text" json:"description"`
	Status         constants.TaskStatus   `gorm:"type:varchar(20);not null;default:todo" json:"status"`
	Priority       constants.TaskPriority `gorm:"type:varchar(20);not null;default:medium" json:"priority"`
	DueDate        *time.Time             `json:"due_date"`
	EstimatedHours float64                `gorm:"not null;default:0" json:"estimated_hours"`
	ActualHours    float64                `gorm:"not null;default:0" json:"actual_hours"`
	CompletedAt    *time.Time             `json:"completed_at"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	DeletedAt      gorm.DeletedAt         `gorm:"index" json:"deleted_at,omitempty"`

	Project  *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Creator  *User    `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Assignee *User    `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}

// IsOverdue is true iff the task has a due date, is not completed, and the due
// date falls on a calendar day strictly before now's. A nil due date is never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == constants.StatusCompleted {
		return false
	}
	return DateOf(*t.DueDate).Before(DateOf(now))
}

// CompletionTime is when the task reached completed status. Rows completed
// before CompletedAt was tracked fall back to their last update.
func (t *Task) CompletionTime() (time.Time, bool) {
	if t.Status != constants.StatusCompleted {
		return time.Time{}, false
	}
	if t.CompletedAt != nil {
		return *t.CompletedAt, true
	}
	return t.UpdatedAt, true
}

// SetStatus moves the task to status and keeps CompletedAt in step with it.
func (t *Task) SetStatus(status constants.TaskStatus, now time.Time) {
	if status == constants.StatusCompleted && t.Status != constants.StatusCompleted {
		completed := now.UTC()
		t.CompletedAt = &completed
	}
	if status != constants.StatusCompleted {
		t.CompletedAt = nil
	}
	t.Status = status
}

func (t *Task) Lifecycle() constants.Lifecycle {
	return lifecycleOf(t.DeletedAt)
}
