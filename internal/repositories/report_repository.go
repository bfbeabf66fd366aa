package repository

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	apperrors "taskboard.com/taskboard/internal/errors"
	"taskboard.com/taskboard/internal/reports"
	model "taskboard.com/taskboard/pkg/models"
)

// ReportRepository reads the rows a report needs inside one read-only
// transaction so that every metric is computed from the same snapshot.
type ReportRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db, now: time.Now}
}

// WithClock overrides the time stamped on snapshots, which reports use as
// "now" for overdue checks.
func (r *ReportRepository) WithClock(now func() time.Time) *ReportRepository {
	return &ReportRepository{db: r.db, now: now}
}

// ProjectSnapshot loads a live project, its live tasks and the users they
// are assigned to. Assignee names are resolved even if the user has since
// been removed.
func (r *ReportRepository) ProjectSnapshot(ctx context.Context, projectID uint) (*reports.Snapshot, error) {
	snap := &reports.Snapshot{}

	err := r.readOnly(ctx, func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, "id = ?", projectID).Error; err != nil {
			return translate(err, apperrors.ErrProjectNotFound, "loading project snapshot")
		}
		snap.Projects = []model.Project{project}

		if err := tx.Where("project_id = ?", projectID).Order("id asc").Find(&snap.Tasks).Error; err != nil {
			return translate(err, apperrors.ErrTaskNotFound, "loading project tasks")
		}

		assignees := assigneeIDs(snap.Tasks)
		if len(assignees) == 0 {
			return nil
		}
		err := tx.Unscoped().Where("id IN ?", assignees).Order("id asc").Find(&snap.Users).Error
		return translate(err, apperrors.ErrUserNotFound, "loading assignees")
	})
	if err != nil {
		return nil, err
	}

	snap.TakenAt = r.now()
	return snap, nil
}

// OrganizationSnapshot loads the live users and projects of a live
// organization, plus the live tasks of those projects.
func (r *ReportRepository) OrganizationSnapshot(ctx context.Context, orgID uint) (*reports.Snapshot, error) {
	snap := &reports.Snapshot{}

	err := r.readOnly(ctx, func(tx *gorm.DB) error {
		var org model.Organization
		if err := tx.First(&org, "id = ?", orgID).Error; err != nil {
			return translate(err, apperrors.ErrOrganizationNotFound, "loading organization snapshot")
		}

		if err := tx.Where("organization_id = ?", orgID).Order("id asc").Find(&snap.Users).Error; err != nil {
			return translate(err, apperrors.ErrUserNotFound, "loading organization users")
		}

		if err := tx.Where("organization_id = ?", orgID).Order("id asc").Find(&snap.Projects).Error; err != nil {
			return translate(err, apperrors.ErrProjectNotFound, "loading organization projects")
		}

		if len(snap.Projects) == 0 {
			return nil
		}
		projectIDs := make([]uint, len(snap.Projects))
		for i, p := range snap.Projects {
			projectIDs[i] = p.ID
		}
		err := tx.Where("project_id IN ?", projectIDs).Order("id asc").Find(&snap.Tasks).Error
		return translate(err, apperrors.ErrTaskNotFound, "loading organization tasks")
	})
	if err != nil {
		return nil, err
	}

	snap.TakenAt = r.now()
	return snap, nil
}

func (r *ReportRepository) readOnly(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn, &sql.TxOptions{ReadOnly: true})
}

func assigneeIDs(tasks []model.Task) []uint {
	seen := make(map[uint]struct{})
	ids := make([]uint, 0)
	for _, t := range tasks {
		if t.AssignedTo == nil {
			continue
		}
		if _, ok := seen[*t.AssignedTo]; ok {
			continue
		}
		seen[*t.AssignedTo] = struct{}{}
		ids = append(ids, *t.AssignedTo)
	}
	return ids
}
