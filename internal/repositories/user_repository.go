package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard.com/taskboard/internal/constants"
	apperrors "taskboard.com/taskboard/internal/errors"
	model "taskboard.com/taskboard/pkg/models"
)

type UserFilter struct {
	OrganizationID uint
	Role           constants.Role
	IsActive       *bool
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Organization").First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrUserNotFound, "finding user")
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", normalizeEmail(email)).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrUserNotFound, "finding user by email")
	}
	return &user, nil
}

// EmailTaken checks tombstoned rows too, matching the unique index.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.User{}).
		Where("email = ? AND id <> ?", normalizeEmail(email), excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking user email: %w", err)
	}
	return count > 0, nil
}

// BelongsToOrganization reports whether a live user with id is a member of orgID.
func (r *UserRepository) BelongsToOrganization(ctx context.Context, id, orgID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking user membership: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) List(ctx context.Context, filter UserFilter, page Pagination) (*Page[model.User], error) {
	query := r.db.WithContext(ctx).Model(&model.User{}).
		Where("organization_id = ?", filter.OrganizationID)

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}

	var users []model.User
	err := page.apply(query).Preload("Organization").
		Order("created_at desc").Order("id desc").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	return newPage(users, total, page), nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	err := r.db.WithContext(ctx).Omit(clause.Associations, "organization_id").Save(user).Error
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// FindWithDeleted loads a user whether or not it is tombstoned.
func (r *UserRepository) FindWithDeleted(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Unscoped().First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrUserNotFound, "finding user")
	}
	return &user, nil
}

func (r *UserRepository) Restore(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&model.User{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restoring user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
