package services

import (
	"context"
	"errors"
	"strings"

	"taskboard.com/taskboard/internal/constants"
	dto "taskboard.com/taskboard/internal/data_models"
	apperrors "taskboard.com/taskboard/internal/errors"
	"taskboard.com/taskboard/internal/policy"
	repository "taskboard.com/taskboard/internal/repositories"
	model "taskboard.com/taskboard/pkg/models"
)

var errProjectDates = apperrors.Validation("end_date must be a date after or equal to start_date")

type ProjectService struct {
	projects *repository.ProjectRepository
}

func NewProjectService(projects *repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

// List returns the projects of the actor's organization. Only admins may
// ask for soft-deleted rows.
func (s *ProjectService) List(ctx context.Context, actor *model.User, q dto.ProjectListQuery) (*repository.Page[model.Project], error) {
	if err := authorize(actor, policy.ActionViewAny, policy.ForKind(policy.KindProject)); err != nil {
		return nil, err
	}
	if q.WithDeleted && !actor.IsAdmin() {
		return nil, apperrors.ErrUnauthorized
	}

	status := constants.ProjectStatus(q.Status)
	if status != "" && !status.Valid() {
		return nil, apperrors.Validation("status is invalid")
	}

	filter := repository.ProjectFilter{
		OrganizationID: actor.OrganizationID,
		Status:         status,
		IncludeDeleted: q.WithDeleted,
	}
	return s.projects.List(ctx, filter, pagination(q.Page, q.PerPage))
}

// Create adds a project to the actor's organization with the actor as creator.
func (s *ProjectService) Create(ctx context.Context, actor *model.User, req dto.CreateProjectRequest) (*model.Project, error) {
	if err := authorize(actor, policy.ActionCreate, policy.ForKind(policy.KindProject)); err != nil {
		return nil, err
	}

	project := &model.Project{
		OrganizationID: actor.OrganizationID,
		CreatedBy:      actor.ID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Status:         constants.ProjectPlanning,
	}
	if req.Status != "" {
		project.Status = constants.ProjectStatus(req.Status)
		if !project.Status.Valid() {
			return nil, apperrors.Validation("status is invalid")
		}
	}

	var err error
	if project.StartDate, err = parseDate("start_date", req.StartDate); err != nil {
		return nil, err
	}
	if project.EndDate, err = parseDate("end_date", req.EndDate); err != nil {
		return nil, err
	}
	if !project.DatesValid() {
		return nil, errProjectDates
	}

	project.Slug, err = resolveSlug(ctx, req.Slug, project.Name, func(ctx context.Context, slug string) (bool, error) {
		return s.projects.SlugTaken(ctx, actor.OrganizationID, slug, 0)
	})
	if err != nil {
		return nil, err
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return s.projects.FindByID(ctx, project.ID, false)
}

// Get returns the project with its tasks.
func (s *ProjectService) Get(ctx context.Context, actor *model.User, id uint) (*model.Project, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	project, err := s.projects.FindWithTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionView, policy.ForProject(project)); err != nil {
		return nil, err
	}
	return project, nil
}

// Update applies a partial update. The date rule is checked against the
// merged values so a patch touching one bound still sees the other.
func (s *ProjectService) Update(ctx context.Context, actor *model.User, id uint, req dto.UpdateProjectRequest) (*model.Project, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionUpdate, policy.ForProject(project)); err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description.Set {
		project.Description = req.Description.Value
	}
	if req.Status != nil {
		status := constants.ProjectStatus(*req.Status)
		if !status.Valid() {
			return nil, apperrors.Validation("status is invalid")
		}
		project.Status = status
	}
	if req.StartDate.Set {
		if project.StartDate, err = parseDate("start_date", req.StartDate.Value); err != nil {
			return nil, err
		}
	}
	if req.EndDate.Set {
		if project.EndDate, err = parseDate("end_date", req.EndDate.Value); err != nil {
			return nil, err
		}
	}
	if !project.DatesValid() {
		return nil, errProjectDates
	}
	if req.Slug != nil {
		project.Slug, err = resolveSlug(ctx, req.Slug, project.Name, func(ctx context.Context, slug string) (bool, error) {
			return s.projects.SlugTaken(ctx, project.OrganizationID, slug, project.ID)
		})
		if err != nil {
			return nil, err
		}
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := requireID(id); err != nil {
		return err
	}
	project, err := s.projects.FindByID(ctx, id, false)
	if err != nil {
		return err
	}
	if err := authorize(actor, policy.ActionDelete, policy.ForProject(project)); err != nil {
		return err
	}
	return s.projects.Delete(ctx, project.ID)
}

func (s *ProjectService) Restore(ctx context.Context, actor *model.User, id uint) (*model.Project, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionRestore, policy.ForProject(project)); err != nil {
		return nil, err
	}
	if err := s.projects.Restore(ctx, project.ID); err != nil {
		if errors.Is(err, apperrors.ErrProjectNotFound) {
			return nil, apperrors.Conflict("project %d is not deleted", project.ID)
		}
		return nil, err
	}
	return s.projects.FindByID(ctx, project.ID, false)
}
