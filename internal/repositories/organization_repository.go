package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "taskboard.com/taskboard/internal/errors"
	model "taskboard.com/taskboard/pkg/models"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return fmt.Errorf("creating organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uint, includeDeleted bool) (*model.Organization, error) {
	var org model.Organization
	err := scope(r.db.WithContext(ctx), includeDeleted).First(&org, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrOrganizationNotFound, "finding organization")
	}
	return &org, nil
}

// SlugTaken checks tombstoned rows too, matching the unique index.
func (r *OrganizationRepository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Organization{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking organization slug: %w", err)
	}
	return count > 0, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(org).Error; err != nil {
		return fmt.Errorf("updating organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Organization{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting organization: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrOrganizationNotFound
	}
	return nil
}

func (r *OrganizationRepository) Restore(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&model.Organization{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restoring organization: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrOrganizationNotFound
	}
	return nil
}

// WithTx returns a repository bound to tx.
func (r *OrganizationRepository) WithTx(tx *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: tx}
}
