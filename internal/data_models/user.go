package dto

type UserListQuery struct {
	Role     string `query:"role" validate:"omitempty,oneof=admin manager member"`
	IsActive string `query:"is_active" validate:"omitempty,oneof=true false 1 0"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PerPage  int    `query:"per_page" validate:"omitempty,min=1,max=100"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin manager member"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUserRequest has no organization field: membership is fixed at creation.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin manager member"`
	IsActive *bool   `json:"is_active"`
}
