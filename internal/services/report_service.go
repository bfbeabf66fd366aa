package services

import (
	"context"

	"taskboard.com/taskboard/internal/policy"
	"taskboard.com/taskboard/internal/reports"
	repository "taskboard.com/taskboard/internal/repositories"
	model "taskboard.com/taskboard/pkg/models"
)

// ReportService checks access, loads one consistent snapshot and hands it
// to the report engine. Reports never write.
type ReportService struct {
	reports  *repository.ReportRepository
	projects *repository.ProjectRepository
	orgs     *repository.OrganizationRepository
}

func NewReportService(
	reports *repository.ReportRepository,
	projects *repository.ProjectRepository,
	orgs *repository.OrganizationRepository,
) *ReportService {
	return &ReportService{reports: reports, projects: projects, orgs: orgs}
}

// TaskAnalytics is visible to anyone who can view the project.
func (s *ReportService) TaskAnalytics(ctx context.Context, actor *model.User, projectID uint) (*reports.TaskAnalytics, error) {
	if err := requireID(projectID); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, projectID, false)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionView, policy.ForProject(project)); err != nil {
		return nil, err
	}
	return s.RunTaskAnalytics(ctx, projectID)
}

func (s *ReportService) UserWorkload(ctx context.Context, actor *model.User, orgID uint) ([]reports.WorkloadRow, error) {
	if err := s.authorizeOrganization(ctx, actor, orgID); err != nil {
		return nil, err
	}
	return s.RunUserWorkload(ctx, orgID)
}

func (s *ReportService) ProjectComparison(ctx context.Context, actor *model.User, orgID uint) ([]reports.ComparisonRow, error) {
	if err := s.authorizeOrganization(ctx, actor, orgID); err != nil {
		return nil, err
	}
	return s.RunProjectComparison(ctx, orgID)
}

// RunTaskAnalytics builds the report without an actor. It backs the CLI.
func (s *ReportService) RunTaskAnalytics(ctx context.Context, projectID uint) (*reports.TaskAnalytics, error) {
	if err := requireID(projectID); err != nil {
		return nil, err
	}
	snap, err := s.reports.ProjectSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := reports.BuildTaskAnalytics(&snap.Projects[0], snap.Tasks, snap.Users, snap.TakenAt)
	return &out, nil
}

// RunUserWorkload builds the report without an actor. It backs the CLI.
func (s *ReportService) RunUserWorkload(ctx context.Context, orgID uint) ([]reports.WorkloadRow, error) {
	if err := requireID(orgID); err != nil {
		return nil, err
	}
	snap, err := s.reports.OrganizationSnapshot(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return reports.BuildUserWorkload(snap.Users, snap.Tasks, snap.TakenAt), nil
}

// RunProjectComparison builds the report without an actor. It backs the CLI.
func (s *ReportService) RunProjectComparison(ctx context.Context, orgID uint) ([]reports.ComparisonRow, error) {
	if err := requireID(orgID); err != nil {
		return nil, err
	}
	snap, err := s.reports.OrganizationSnapshot(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return reports.BuildProjectComparison(snap.Projects, snap.Tasks, snap.TakenAt), nil
}

func (s *ReportService) authorizeOrganization(ctx context.Context, actor *model.User, orgID uint) error {
	if err := requireID(orgID); err != nil {
		return err
	}
	if _, err := s.orgs.FindByID(ctx, orgID, false); err != nil {
		return err
	}
	if err := authorize(actor, policy.ActionView, policy.ForReport(orgID)); err != nil {
		return err
	}
	return nil
}
