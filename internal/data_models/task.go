package dto

type TaskListQuery struct {
	ProjectID   uint   `query:"project_id"`
	Status      string `query:"status" validate:"omitempty,oneof=todo in_progress review completed"`
	Priority    string `query:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo  uint   `query:"assigned_to"`
	WithDeleted bool   `query:"with_deleted"`
	Page        int    `query:"page" validate:"omitempty,min=1"`
	PerPage     int    `query:"per_page" validate:"omitempty,min=1,max=100"`
}

type CreateTaskRequest struct {
	ProjectID      uint     `json:"project_id" validate:"required"`
	Title          string   `json:"title" validate:"required,max=255"`
	Description    *string  `json:"description"`
	Status         string   `json:"status" validate:"omitempty,oneof=todo in_progress review completed"`
	Priority       string   `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo     *uint    `json:"assigned_to"`
	DueDate        *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	EstimatedHours *float64 `json:"estimated_hours" validate:"omitempty,gte=0"`
	ActualHours    *float64 `json:"actual_hours" validate:"omitempty,gte=0"`
}

// UpdateTaskRequest cannot move a task to another project.
type UpdateTaskRequest struct {
	Title          *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description    Nullable[string] `json:"description"`
	Status         *string          `json:"status" validate:"omitempty,oneof=todo in_progress review completed"`
	Priority       *string          `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssignedTo     Nullable[uint]   `json:"assigned_to"`
	DueDate        Nullable[string] `json:"due_date"`
	EstimatedHours *float64         `json:"estimated_hours" validate:"omitempty,gte=0"`
	ActualHours    *float64         `json:"actual_hours" validate:"omitempty,gte=0"`
}
