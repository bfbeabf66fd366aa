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

// TaskFilter scopes a listing to the projects of one organization.
type TaskFilter struct {
	OrganizationID uint
	ProjectID      uint
	Status         constants.TaskStatus
	Priority       constants.TaskPriority
	AssignedTo     uint
	IncludeDeleted bool
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// FindByID loads the task with its project so callers can resolve the
// owning organization. A task whose project is tombstoned is not found.
func (r *TaskRepository) FindByID(ctx context.Context, id uint, includeDeleted bool) (*model.Task, error) {
	var task model.Task
	err := scope(r.db.WithContext(ctx), includeDeleted).
		Preload("Project").
		Preload("Creator").
		Preload("Assignee").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrTaskNotFound, "finding task")
	}
	if task.Project == nil {
		return nil, apperrors.ErrTaskNotFound
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter, page Pagination) (*Page[model.Task], error) {
	join := "JOIN projects ON projects.id = tasks.project_id AND projects.deleted_at IS NULL"
	if filter.IncludeDeleted {
		join = "JOIN projects ON projects.id = tasks.project_id"
	}

	query := scope(r.db.WithContext(ctx), filter.IncludeDeleted).Model(&model.Task{}).
		Joins(join).
		Where("projects.organization_id = ?", filter.OrganizationID)

	if filter.ProjectID != 0 {
		query = query.Where("tasks.project_id = ?", filter.ProjectID)
	}
	if filter.Status != "" {
		query = query.Where("tasks.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("tasks.priority = ?", filter.Priority)
	}
	if filter.AssignedTo != 0 {
		query = query.Where("tasks.assigned_to = ?", filter.AssignedTo)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting tasks: %w", err)
	}

	var tasks []model.Task
	err := page.apply(query).
		Preload("Project", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Creator").
		Preload("Assignee").
		Order("tasks.created_at desc").Order("tasks.id desc").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	return newPage(tasks, total, page), nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations, "project_id", "created_by").Save(task).Error
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Restore(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&model.Task{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restoring task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}
