package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskboard.com/taskboard/internal/constants"
	dto "taskboard.com/taskboard/internal/data_models"
	apperrors "taskboard.com/taskboard/internal/errors"
	"taskboard.com/taskboard/internal/policy"
	repository "taskboard.com/taskboard/internal/repositories"
	model "taskboard.com/taskboard/pkg/models"
)

type TaskService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	users    *repository.UserRepository
	now      func() time.Time
}

func NewTaskService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	users *repository.UserRepository,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		users:    users,
		now:      time.Now,
	}
}

// List returns tasks whose project belongs to the actor's organization.
func (s *TaskService) List(ctx context.Context, actor *model.User, q dto.TaskListQuery) (*repository.Page[model.Task], error) {
	if err := authorize(actor, policy.ActionViewAny, policy.ForKind(policy.KindTask)); err != nil {
		return nil, err
	}
	if q.WithDeleted && !actor.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}

	filter := repository.TaskFilter{
		OrganizationID: actor.OrganizationID,
		ProjectID:      q.ProjectID,
		Status:         constants.TaskStatus(q.Status),
		Priority:       constants.TaskPriority(q.Priority),
		AssignedTo:     q.AssignedTo,
		IncludeDeleted: q.WithDeleted,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Validation("status is invalid")
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, apperrors.Validation("priority is invalid")
	}

	return s.tasks.List(ctx, filter, pagination(q.Page, q.PerPage))
}

// Create adds a task to a project the actor can see.
func (s *TaskService) Create(ctx context.Context, actor *model.User, req dto.CreateTaskRequest) (*model.Task, error) {
	if err := authorize(actor, policy.ActionCreate, policy.ForKind(policy.KindTask)); err != nil {
		return nil, err
	}
	if req.ProjectID == 0 {
		return nil, apperrors.Validation("project_id is required")
	}

	project, err := s.projects.FindByID(ctx, req.ProjectID, false)
	if err != nil {
		if errors.Is(err, apperrors.ErrProjectNotFound) {
			return nil, apperrors.Validation("the selected project_id is invalid")
		}
		return nil, err
	}
	if err := authorize(actor, policy.ActionView, policy.ForProject(project)); err != nil {
		return nil, err
	}

	task := &model.Task{
		ProjectID:   project.ID,
		CreatedBy:   actor.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      constants.StatusTodo,
		Priority:    constants.PriorityMedium,
	}

	if req.Priority != "" {
		task.Priority = constants.TaskPriority(req.Priority)
		if !task.Priority.Valid() {
			return nil, apperrors.Validation("priority is invalid")
		}
	}
	if req.Status != "" {
		status := constants.TaskStatus(req.Status)
		if !status.Valid() {
			return nil, apperrors.Validation("status is invalid")
		}
		task.SetStatus(status, s.now())
	}
	if task.DueDate, err = parseDate("due_date", req.DueDate); err != nil {
		return nil, err
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
	}
	if req.ActualHours != nil {
		task.ActualHours = *req.ActualHours
	}
	if err := validateHours(task); err != nil {
		return nil, err
	}
	if req.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *req.AssignedTo, project.OrganizationID); err != nil {
			return nil, err
		}
		task.AssignedTo = req.AssignedTo
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return s.tasks.FindByID(ctx, task.ID, false)
}

func (s *TaskService) Get(ctx context.Context, actor *model.User, id uint) (*model.Task, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionView, policy.ForTask(task, task.Project.OrganizationID)); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies a partial update. CompletedAt follows status transitions.
func (s *TaskService) Update(ctx context.Context, actor *model.User, id uint, req dto.UpdateTaskRequest) (*model.Task, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	orgID := task.Project.OrganizationID
	if err := authorize(actor, policy.ActionUpdate, policy.ForTask(task, orgID)); err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description.Set {
		task.Description = req.Description.Value
	}
	if req.Priority != nil {
		priority := constants.TaskPriority(*req.Priority)
		if !priority.Valid() {
			return nil, apperrors.Validation("priority is invalid")
		}
		task.Priority = priority
	}
	if req.Status != nil {
		status := constants.TaskStatus(*req.Status)
		if !status.Valid() {
			return nil, apperrors.Validation("status is invalid")
		}
		task.SetStatus(status, s.now())
	}
	if req.DueDate.Set {
		if task.DueDate, err = parseDate("due_date", req.DueDate.Value); err != nil {
			return nil, err
		}
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = *req.EstimatedHours
	}
	if req.ActualHours != nil {
		task.ActualHours = *req.ActualHours
	}
	if err := validateHours(task); err != nil {
		return nil, err
	}
	if req.AssignedTo.Set {
		if req.AssignedTo.Value != nil {
			if err := s.checkAssignee(ctx, *req.AssignedTo.Value, orgID); err != nil {
				return nil, err
			}
		}
		task.AssignedTo = req.AssignedTo.Value
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return s.tasks.FindByID(ctx, task.ID, false)
}

func (s *TaskService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := requireID(id); err != nil {
		return err
	}
	task, err := s.tasks.FindByID(ctx, id, false)
	if err != nil {
		return err
	}
	if err := authorize(actor, policy.ActionDelete, policy.ForTask(task, task.Project.OrganizationID)); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, task.ID)
}

func (s *TaskService) Restore(ctx context.Context, actor *model.User, id uint) (*model.Task, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionRestore, policy.ForTask(task, task.Project.OrganizationID)); err != nil {
		return nil, err
	}
	if task.Project.DeletedAt.Valid {
		return nil, apperrors.Conflict("project %d is deleted; restore it before its tasks", task.ProjectID)
	}
	if err := s.tasks.Restore(ctx, task.ID); err != nil {
		if errors.Is(err, apperrors.ErrTaskNotFound) {
			return nil, apperrors.Conflict("task %d is not deleted", task.ID)
		}
		return nil, err
	}
	return s.tasks.FindByID(ctx, task.ID, false)
}

// checkAssignee requires a live user of the project's organization.
func (s *TaskService) checkAssignee(ctx context.Context, userID, orgID uint) error {
	ok, err := s.users.BelongsToOrganization(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Validation("assigned_to must be a member of the project's organization")
	}
	return nil
}

func validateHours(task *model.Task) error {
	if task.EstimatedHours < 0 || task.ActualHours < 0 {
		return apperrors.Validation("hours must be at least 0")
	}
	return nil
}
