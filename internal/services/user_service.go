package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"taskboard.com/taskboard/internal/auth"
	"taskboard.com/taskboard/internal/constants"
	dto "taskboard.com/taskboard/internal/data_models"
	apperrors "taskboard.com/taskboard/internal/errors"
	"taskboard.com/taskboard/internal/policy"
	repository "taskboard.com/taskboard/internal/repositories"
	model "taskboard.com/taskboard/pkg/models"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns the users of the actor's organization.
func (s *UserService) List(ctx context.Context, actor *model.User, q dto.UserListQuery) (*repository.Page[model.User], error) {
	if err := authorize(actor, policy.ActionViewAny, policy.ForKind(policy.KindUser)); err != nil {
		return nil, err
	}

	filter := repository.UserFilter{
		OrganizationID: actor.OrganizationID,
		Role:           constants.Role(q.Role),
	}
	if q.Role != "" && !filter.Role.Valid() {
		return nil, apperrors.Validation("role must be one of: admin, manager, member")
	}
	if q.IsActive != "" {
		active, err := strconv.ParseBool(q.IsActive)
		if err != nil {
			return nil, apperrors.Validation("is_active must be a boolean")
		}
		filter.IsActive = &active
	}

	return s.users.List(ctx, filter, pagination(q.Page, q.PerPage))
}

// Create adds a user to the actor's organization.
func (s *UserService) Create(ctx context.Context, actor *model.User, req dto.CreateUserRequest) (*model.User, error) {
	if err := authorize(actor, policy.ActionCreate, policy.ForKind(policy.KindUser)); err != nil {
		return nil, err
	}

	role := constants.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.Validation("role must be one of: admin, manager, member")
	}

	taken, err := s.users.EmailTaken(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		OrganizationID: actor.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		Email:          req.Email,
		PasswordHash:   hash,
		Role:           role,
		IsActive:       true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, user.ID)
}

func (s *UserService) Get(ctx context.Context, actor *model.User, id uint) (*model.User, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionView, policy.ForUser(user)); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, actor *model.User, id uint, req dto.UpdateUserRequest) (*model.User, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionUpdate, policy.ForUser(user)); err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		taken, err := s.users.EmailTaken(ctx, *req.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrEmailTaken
		}
		user.Email = *req.Email
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.Role != nil {
		role := constants.Role(*req.Role)
		if !role.Valid() {
			return nil, apperrors.Validation("role must be one of: admin, manager, member")
		}
		user.Role = role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := requireID(id); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, policy.ActionDelete, policy.ForUser(user)); err != nil {
		return err
	}
	return s.users.Delete(ctx, user.ID)
}

// Restore brings back a deleted user of the actor's organization.
func (s *UserService) Restore(ctx context.Context, actor *model.User, id uint) (*model.User, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	user, err := s.users.FindWithDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionRestore, policy.ForUser(user)); err != nil {
		return nil, err
	}
	if err := s.users.Restore(ctx, user.ID); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.Conflict("user %d is not deleted", user.ID)
		}
		return nil, err
	}
	return s.users.FindByID(ctx, user.ID)
}
