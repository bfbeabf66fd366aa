package dto

type UpdateOrganizationRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Slug        *string          `json:"slug" validate:"omitempty,min=1,max=255"`
	Description Nullable[string] `json:"description"`
	IsActive    *bool            `json:"is_active"`
}
