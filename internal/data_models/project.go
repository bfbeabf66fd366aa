package dto

type ProjectListQuery struct {
	Status      string `query:"status" validate:"omitempty,oneof=planning active on_hold completed archived"`
	WithDeleted bool   `query:"with_deleted"`
	Page        int    `query:"page" validate:"omitempty,min=1"`
	PerPage     int    `query:"per_page" validate:"omitempty,min=1,max=100"`
}

// Dates are calendar days in YYYY-MM-DD form.
type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Slug        *string `json:"slug" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Status      string  `json:"status" validate:"omitempty,oneof=planning active on_hold completed archived"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateProjectRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Slug        *string          `json:"slug" validate:"omitempty,min=1,max=255"`
	Description Nullable[string] `json:"description"`
	Status      *string          `json:"status" validate:"omitempty,oneof=planning active on_hold completed archived"`
	StartDate   Nullable[string] `json:"start_date"`
	EndDate     Nullable[string] `json:"end_date"`
}
