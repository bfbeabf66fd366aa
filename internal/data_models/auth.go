package dto

import (
	"time"

	model "taskboard.com/taskboard/pkg/models"
)

// RegisterRequest creates an organization together with its first admin.
type RegisterRequest struct {
	OrganizationName string  `json:"organization_name" validate:"required,max=255"`
	OrganizationSlug *string `json:"organization_slug" validate:"omitempty,max=255"`
	Name             string  `json:"name" validate:"required,max=255"`
	Email            string  `json:"email" validate:"required,email,max=255"`
	Password         string  `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type RegisterResponse struct {
	Organization *model.Organization `json:"organization"`
	TokenResponse
}
