package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"taskboard.com/taskboard/internal/auth"
	"taskboard.com/taskboard/internal/constants"
	dto "taskboard.com/taskboard/internal/data_models"
	apperrors "taskboard.com/taskboard/internal/errors"
	"taskboard.com/taskboard/internal/policy"
	repository "taskboard.com/taskboard/internal/repositories"
	model "taskboard.com/taskboard/pkg/models"
)

type OrganizationService struct {
	db    *gorm.DB
	orgs  *repository.OrganizationRepository
	users *repository.UserRepository
}

func NewOrganizationService(db *gorm.DB, orgs *repository.OrganizationRepository, users *repository.UserRepository) *OrganizationService {
	return &OrganizationService{db: db, orgs: orgs, users: users}
}

// Register creates an organization and its first admin in one transaction.
func (s *OrganizationService) Register(ctx context.Context, req dto.RegisterRequest) (*model.Organization, *model.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	var (
		org   *model.Organization
		admin *model.User
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orgs := s.orgs.WithTx(tx)
		users := s.users.WithTx(tx)

		taken, err := users.EmailTaken(ctx, req.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrEmailTaken
		}

		slug, err := resolveSlug(ctx, req.OrganizationSlug, req.OrganizationName, func(ctx context.Context, slug string) (bool, error) {
			return orgs.SlugTaken(ctx, slug, 0)
		})
		if err != nil {
			return err
		}

		org = &model.Organization{
			Name:     strings.TrimSpace(req.OrganizationName),
			Slug:     slug,
			IsActive: true,
		}
		if err := orgs.Create(ctx, org); err != nil {
			return err
		}

		admin = &model.User{
			OrganizationID: org.ID,
			Name:           strings.TrimSpace(req.Name),
			Email:          req.Email,
			PasswordHash:   hash,
			Role:           constants.RoleAdmin,
			IsActive:       true,
		}
		return users.Create(ctx, admin)
	})
	if err != nil {
		return nil, nil, err
	}

	admin.Organization = org
	return org, admin, nil
}

func (s *OrganizationService) Get(ctx context.Context, actor *model.User, id uint) (*model.Organization, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	org, err := s.orgs.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionView, policy.ForOrganization(org)); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Update(ctx context.Context, actor *model.User, id uint, req dto.UpdateOrganizationRequest) (*model.Organization, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	org, err := s.orgs.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionUpdate, policy.ForOrganization(org)); err != nil {
		return nil, err
	}

	if req.Name != nil {
		org.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		slug, err := resolveSlug(ctx, req.Slug, org.Name, func(ctx context.Context, slug string) (bool, error) {
			return s.orgs.SlugTaken(ctx, slug, org.ID)
		})
		if err != nil {
			return nil, err
		}
		org.Slug = slug
	}
	if req.Description.Set {
		org.Description = req.Description.Value
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}

	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := requireID(id); err != nil {
		return err
	}
	org, err := s.orgs.FindByID(ctx, id, false)
	if err != nil {
		return err
	}
	if err := authorize(actor, policy.ActionDelete, policy.ForOrganization(org)); err != nil {
		return err
	}
	return s.orgs.Delete(ctx, org.ID)
}

func (s *OrganizationService) Restore(ctx context.Context, actor *model.User, id uint) (*model.Organization, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	org, err := s.orgs.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionRestore, policy.ForOrganization(org)); err != nil {
		return nil, err
	}
	if err := s.orgs.Restore(ctx, org.ID); err != nil {
		if errors.Is(err, apperrors.ErrOrganizationNotFound) {
			return nil, apperrors.Conflict("organization %d is not deleted", org.ID)
		}
		return nil, err
	}
	return s.orgs.FindByID(ctx, org.ID, false)
}
