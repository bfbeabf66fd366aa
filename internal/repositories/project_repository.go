package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard.com/taskboard/internal/constants"
	apperrors "taskboard.com/taskboard/internal/errors"
	model "taskboard.com/taskboard/pkg/models"
)

type ProjectFilter struct {
	OrganizationID uint
	Status         constants.ProjectStatus
	IncludeDeleted bool
}

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error; err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint, includeDeleted bool) (*model.Project, error) {
	var project model.Project
	err := scope(r.db.WithContext(ctx), includeDeleted).
		Preload("Organization").
		Preload("Creator").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrProjectNotFound, "finding project")
	}
	return &project, nil
}

// FindWithTasks loads a live project with its live tasks and their assignees.
func (r *ProjectRepository) FindWithTasks(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Organization").
		Preload("Creator").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Tasks.Assignee").
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrProjectNotFound, "finding project")
	}
	return &project, nil
}

// SlugTaken checks tombstoned rows too, matching the unique index.
func (r *ProjectRepository) SlugTaken(ctx context.Context, orgID uint, slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Project{}).
		Where("organization_id = ? AND slug = ? AND id <> ?", orgID, slug, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("checking project slug: %w", err)
	}
	return count > 0, nil
}

func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter, page Pagination) (*Page[model.Project], error) {
	query := scope(r.db.WithContext(ctx), filter.IncludeDeleted).Model(&model.Project{}).
		Where("organization_id = ?", filter.OrganizationID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting projects: %w", err)
	}

	var projects []model.Project
	err := page.apply(query).
		Preload("Creator").
		Order("created_at desc").Order("id desc").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	return newPage(projects, total, page), nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations, "organization_id", "created_by").Save(project).Error
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Project{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) Restore(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&model.Project{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restoring project: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}
