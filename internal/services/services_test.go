package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskboard.com/taskboard/internal/auth"
	"taskboard.com/taskboard/internal/constants"
	dto "taskboard.com/taskboard/internal/data_models"
	apperrors "taskboard.com/taskboard/internal/errors"
	repository "taskboard.com/taskboard/internal/repositories"
	model "taskboard.com/taskboard/pkg/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(&model.Organization{}, &model.User{}, &model.Project{}, &model.Task{})
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

type env struct {
	db       *gorm.DB
	orgs     *OrganizationService
	users    *UserService
	projects *ProjectService
	tasks    *TaskService
	reports  *ReportService
	auth     *AuthService

	org     model.Organization
	admin   *model.User
	manager *model.User
	member  *model.User
	other   *model.User
}

func newEnv(t *testing.T) *env {
	db := setupTestDB(t)
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	e := &env{
		db:       db,
		orgs:     NewOrganizationService(db, orgRepo, userRepo),
		users:    NewUserService(userRepo),
		projects: NewProjectService(projectRepo),
		tasks:    NewTaskService(taskRepo, projectRepo, userRepo),
		reports:  NewReportService(repository.NewReportRepository(db), projectRepo, orgRepo),
		auth:     NewAuthService(userRepo, issuer, auth.NewMemoryRevocationStore()),
	}

	ctx := context.Background()
	org, admin, err := e.orgs.Register(ctx, dto.RegisterRequest{
		OrganizationName: "Acme", Name: "Ada", Email: "ada@acme.test", Password: "password1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	e.org = *org
	e.admin = admin

	e.manager = e.mustCreateUser(t, admin, "Max", "max@acme.test", constants.RoleManager)
	e.member = e.mustCreateUser(t, admin, "Mia", "mia@acme.test", constants.RoleMember)

	_, otherAdmin, err := e.orgs.Register(ctx, dto.RegisterRequest{
		OrganizationName: "Globex", Name: "Gus", Email: "gus@globex.test", Password: "password1",
	})
	if err != nil {
		t.Fatalf("register other: %v", err)
	}
	e.other = otherAdmin

	return e
}

func (e *env) mustCreateUser(t *testing.T, admin *model.User, name, email string, role constants.Role) *model.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), admin, dto.CreateUserRequest{
		Name: name, Email: email, Password: "password1", Role: string(role),
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func (e *env) mustCreateProject(t *testing.T, actor *model.User, name string) *model.Project {
	t.Helper()
	p, err := e.projects.Create(context.Background(), actor, dto.CreateProjectRequest{Name: name})
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return p
}

func (e *env) mustCreateTask(t *testing.T, actor *model.User, req dto.CreateTaskRequest) *model.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), actor, req)
	if err != nil {
		t.Fatalf("create task %q: %v", req.Title, err)
	}
	return task
}

func (e *env) count(t *testing.T, value any) int64 {
	t.Helper()
	var n int64
	if err := e.db.Unscoped().Model(value).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func ptr[T any](v T) *T { return &v }

func TestOrganizationService_Register(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if e.org.Slug != "acme" || e.admin.Role != constants.RoleAdmin || e.admin.OrganizationID != e.org.ID {
		t.Fatalf("unexpected registration: org=%+v admin=%+v", e.org, e.admin)
	}

	org, _, err := e.orgs.Register(ctx, dto.RegisterRequest{
		OrganizationName: "ACME!", Name: "Al", Email: "al@acme2.test", Password: "password1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if org.Slug != "acme-1" {
		t.Errorf("expected suffixed slug, got %q", org.Slug)
	}

	_, _, err = e.orgs.Register(ctx, dto.RegisterRequest{
		OrganizationName: "Dup", Name: "Dup", Email: "ADA@acme.test", Password: "password1",
	})
	if !errors.Is(err, apperrors.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	_, _, err = e.orgs.Register(ctx, dto.RegisterRequest{
		OrganizationName: "Taken", OrganizationSlug: ptr("globex"), Name: "T", Email: "t@t.test", Password: "password1",
	})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("expected conflict for explicit taken slug, got %v", err)
	}
	if n := e.count(t, &model.Organization{}); n != 3 {
		t.Errorf("failed registrations must not leave rows behind, got %d organizations", n)
	}
}

func TestOrganizationService_TenantIsolation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.orgs.Get(ctx, e.other, e.org.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("cross-tenant view: expected ErrUnauthorized, got %v", err)
	}
	if _, err := e.orgs.Update(ctx, e.manager, e.org.ID, dto.UpdateOrganizationRequest{Name: ptr("Renamed")}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("manager update: expected ErrUnauthorized, got %v", err)
	}

	updated, err := e.orgs.Update(ctx, e.admin, e.org.ID, dto.UpdateOrganizationRequest{
		Name:        ptr("Acme Inc"),
		Description: dto.Some("Widgets"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme Inc" || updated.Slug != "acme" || updated.Description == nil || *updated.Description != "Widgets" {
		t.Errorf("unexpected organization: %+v", updated)
	}

	if err := e.orgs.Delete(ctx, e.admin, e.org.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	restored, err := e.orgs.Restore(ctx, e.admin, e.org.ID)
	if err != nil || restored.Lifecycle() != constants.LifecycleActive {
		t.Fatalf("restore: %v %v", restored, err)
	}
	if _, err := e.orgs.Restore(ctx, e.admin, e.org.ID); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("restoring a live organization: expected conflict, got %v", err)
	}
}

func TestUserService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.users.Create(ctx, e.manager, dto.CreateUserRequest{
		Name: "X", Email: "x@acme.test", Password: "password1", Role: "member",
	}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("manager create: expected ErrUnauthorized, got %v", err)
	}

	if _, err := e.users.Get(ctx, e.admin, e.admin.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("admin viewing self: expected ErrUnauthorized, got %v", err)
	}
	if _, err := e.users.Get(ctx, e.other, e.member.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("cross-tenant view: expected ErrUnauthorized, got %v", err)
	}

	if _, err := e.users.Update(ctx, e.admin, e.member.ID, dto.UpdateUserRequest{Email: ptr("max@acme.test")}); !errors.Is(err, apperrors.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	updated, err := e.users.Update(ctx, e.admin, e.member.ID, dto.UpdateUserRequest{
		Role:     ptr("manager"),
		Password: ptr("new-password"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Role != constants.RoleManager || updated.OrganizationID != e.org.ID {
		t.Errorf("unexpected user: %+v", updated)
	}
	if !auth.CheckPassword(updated.PasswordHash, "new-password") {
		t.Error("password should be re-hashed")
	}

	page, err := e.users.List(ctx, e.admin, dto.UserListQuery{Role: "manager"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("expected 2 managers, got %d", page.Total)
	}

	if err := e.users.Delete(ctx, e.admin, e.member.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := e.users.Get(ctx, e.admin, e.member.ID); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}

	if _, err := e.users.Restore(ctx, e.other, e.member.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("cross-tenant restore: expected ErrUnauthorized, got %v", err)
	}
	restored, err := e.users.Restore(ctx, e.admin, e.member.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Lifecycle() != constants.LifecycleActive || restored.Email != "mia@acme.test" {
		t.Errorf("unexpected restored user: %+v", restored)
	}
	if _, err := e.users.Restore(ctx, e.admin, e.member.ID); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("restoring a live user: expected ErrConflict, got %v", err)
	}
}

func TestProjectService_Authorization(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.projects.Create(ctx, e.member, dto.CreateProjectRequest{Name: "Nope"}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("member create: expected ErrUnauthorized, got %v", err)
	}
	if n := e.count(t, &model.Project{}); n != 0 {
		t.Errorf("denied create must not write, got %d projects", n)
	}

	p := e.mustCreateProject(t, e.manager, "Launch")
	if p.OrganizationID != e.org.ID || p.CreatedBy != e.manager.ID || p.Status != constants.ProjectPlanning || p.Slug != "launch" {
		t.Errorf("unexpected project: %+v", p)
	}

	if _, err := e.projects.Update(ctx, e.other, p.ID, dto.UpdateProjectRequest{Name: ptr("Hijack")}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("cross-tenant admin update: expected ErrUnauthorized, got %v", err)
	}
	if err := e.projects.Delete(ctx, e.manager, p.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("manager delete: expected ErrUnauthorized, got %v", err)
	}
	if _, err := e.projects.List(ctx, e.member, dto.ProjectListQuery{WithDeleted: true}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("member with_deleted: expected ErrUnauthorized, got %v", err)
	}

	if err := e.projects.Delete(ctx, e.admin, p.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := e.projects.Get(ctx, e.admin, p.ID); !errors.Is(err, apperrors.ErrProjectNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	restored, err := e.projects.Restore(ctx, e.admin, p.ID)
	if err != nil || restored.ID != p.ID {
		t.Fatalf("restore: %v %v", restored, err)
	}
}

func TestProjectService_DatesAndSlugs(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.projects.Create(ctx, e.admin, dto.CreateProjectRequest{
		Name: "Backwards", StartDate: ptr("2024-05-10"), EndDate: ptr("2024-05-01"),
	})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for end before start, got %v", err)
	}

	p, err := e.projects.Create(ctx, e.admin, dto.CreateProjectRequest{
		Name: "Roadmap", StartDate: ptr("2024-05-01"), EndDate: ptr("2024-05-31"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = e.projects.Update(ctx, e.admin, p.ID, dto.UpdateProjectRequest{StartDate: dto.Some("2024-06-15")})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("patching start past the stored end should fail, got %v", err)
	}

	updated, err := e.projects.Update(ctx, e.admin, p.ID, dto.UpdateProjectRequest{EndDate: dto.Null[string]()})
	if err != nil {
		t.Fatalf("clear end date: %v", err)
	}
	if updated.EndDate != nil {
		t.Error("end date should be cleared")
	}

	second := e.mustCreateProject(t, e.admin, "Roadmap")
	if second.Slug != "roadmap-1" {
		t.Errorf("expected roadmap-1, got %q", second.Slug)
	}
	if _, err := e.projects.Update(ctx, e.admin, second.ID, dto.UpdateProjectRequest{Slug: ptr("roadmap")}); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("expected conflict for taken slug, got %v", err)
	}

	foreign := e.mustCreateProject(t, e.other, "Roadmap")
	if foreign.Slug != "roadmap" {
		t.Errorf("project slugs are unique per organization, got %q", foreign.Slug)
	}
}

func TestTaskService_CreateAndUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.mustCreateProject(t, e.admin, "Alpha")

	if _, err := e.tasks.Create(ctx, e.member, dto.CreateTaskRequest{
		ProjectID: p.ID, Title: "Leak", AssignedTo: &e.other.ID,
	}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("foreign assignee: expected validation error, got %v", err)
	}

	foreignProject := e.mustCreateProject(t, e.other, "Secret")
	if _, err := e.tasks.Create(ctx, e.member, dto.CreateTaskRequest{ProjectID: foreignProject.ID, Title: "Sneak"}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("task in foreign project: expected ErrUnauthorized, got %v", err)
	}

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	e.tasks.now = func() time.Time { return now }

	task := e.mustCreateTask(t, e.member, dto.CreateTaskRequest{
		ProjectID: p.ID, Title: "Write docs", AssignedTo: &e.member.ID, Status: "completed", EstimatedHours: ptr(3.5),
	})
	if task.Priority != constants.PriorityMedium || task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Errorf("unexpected task: priority=%s completed_at=%v", task.Priority, task.CompletedAt)
	}
	if task.Assignee == nil || task.Assignee.ID != e.member.ID {
		t.Error("assignee should be loaded")
	}

	updated, err := e.tasks.Update(ctx, e.manager, task.ID, dto.UpdateTaskRequest{
		Status:     ptr("in_progress"),
		AssignedTo: dto.Null[uint](),
		DueDate:    dto.Some("2024-06-30"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CompletedAt != nil || updated.AssignedTo != nil || updated.DueDate == nil {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if updated.EstimatedHours != 3.5 {
		t.Errorf("untouched fields must survive, estimated_hours=%v", updated.EstimatedHours)
	}

	if _, err := e.tasks.Update(ctx, e.other, task.ID, dto.UpdateTaskRequest{Title: ptr("x")}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("cross-tenant update: expected ErrUnauthorized, got %v", err)
	}
}

func TestTaskService_DeleteRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.mustCreateProject(t, e.admin, "Alpha")
	other := e.mustCreateUser(t, e.admin, "Ned", "ned@acme.test", constants.RoleMember)

	byMember := e.mustCreateTask(t, e.member, dto.CreateTaskRequest{ProjectID: p.ID, Title: "mine"})
	byNed := e.mustCreateTask(t, other, dto.CreateTaskRequest{ProjectID: p.ID, Title: "ned's"})

	if err := e.tasks.Delete(ctx, e.member, byNed.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("member deleting someone else's task: expected ErrUnauthorized, got %v", err)
	}
	if err := e.tasks.Delete(ctx, e.admin, byNed.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("admin who is not the creator: expected ErrUnauthorized, got %v", err)
	}
	if err := e.tasks.Delete(ctx, e.other, byNed.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("cross-tenant delete: expected ErrUnauthorized, got %v", err)
	}
	if err := e.tasks.Delete(ctx, e.member, byMember.ID); err != nil {
		t.Errorf("creator delete: %v", err)
	}
	if err := e.tasks.Delete(ctx, e.manager, byNed.ID); err != nil {
		t.Errorf("manager delete: %v", err)
	}

	if n := e.count(t, &model.Task{}); n != 2 {
		t.Errorf("soft delete keeps rows, got %d", n)
	}

	restored, err := e.tasks.Restore(ctx, e.manager, byNed.ID)
	if err != nil || restored.Lifecycle() != constants.LifecycleActive {
		t.Fatalf("restore: %v %v", restored, err)
	}

	page, err := e.tasks.List(ctx, e.member, dto.TaskListQuery{ProjectID: p.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != byNed.ID {
		t.Errorf("unexpected tasks after restore: %+v", page.Items)
	}
}

func TestTaskService_RestoreUnderDeletedProject(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.mustCreateProject(t, e.admin, "Alpha")
	task := e.mustCreateTask(t, e.member, dto.CreateTaskRequest{ProjectID: p.ID, Title: "orphan"})

	if err := e.tasks.Delete(ctx, e.manager, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if err := e.projects.Delete(ctx, e.admin, p.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	if _, err := e.tasks.Restore(ctx, e.manager, task.ID); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	var row model.Task
	if err := e.db.Unscoped().First(&row, task.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !row.DeletedAt.Valid {
		t.Error("task must stay deleted while its project is deleted")
	}

	if _, err := e.projects.Restore(ctx, e.admin, p.ID); err != nil {
		t.Fatalf("restore project: %v", err)
	}
	if _, err := e.tasks.Restore(ctx, e.manager, task.ID); err != nil {
		t.Errorf("restore after project restore: %v", err)
	}
}

func TestAuthService_LoginLogout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	if _, err := e.auth.Login(ctx, dto.LoginRequest{Email: "ada@acme.test", Password: "wrong"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := e.auth.Login(ctx, dto.LoginRequest{Email: "nobody@acme.test", Password: "password1"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	resp, err := e.auth.Login(ctx, dto.LoginRequest{Email: "Ada@Acme.test", Password: "password1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.User.ID != e.admin.ID {
		t.Errorf("unexpected login response: %+v", resp)
	}

	user, claims, err := e.auth.Authenticate(ctx, resp.Token)
	if err != nil || user.ID != e.admin.ID {
		t.Fatalf("authenticate: %v %v", user, err)
	}

	if err := e.auth.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := e.auth.Authenticate(ctx, resp.Token); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Errorf("revoked token: expected ErrUnauthenticated, got %v", err)
	}

	if _, err := e.users.Update(ctx, e.admin, e.member.ID, dto.UpdateUserRequest{IsActive: ptr(false)}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := e.auth.Login(ctx, dto.LoginRequest{Email: "mia@acme.test", Password: "password1"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("inactive user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestReportService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.mustCreateProject(t, e.admin, "Alpha")

	e.mustCreateTask(t, e.member, dto.CreateTaskRequest{ProjectID: p.ID, Title: "a", AssignedTo: &e.member.ID, Status: "completed", EstimatedHours: ptr(2.0), ActualHours: ptr(2.0)})
	e.mustCreateTask(t, e.member, dto.CreateTaskRequest{ProjectID: p.ID, Title: "b", AssignedTo: &e.member.ID, EstimatedHours: ptr(3.0), ActualHours: ptr(3.0)})
	e.mustCreateTask(t, e.member, dto.CreateTaskRequest{ProjectID: p.ID, Title: "c", DueDate: ptr("2000-01-01"), Priority: "urgent"})

	analytics, err := e.reports.TaskAnalytics(ctx, e.member, p.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if analytics.TotalTasks != 3 || analytics.CompletedCount != 1 || analytics.OverdueCount != 1 {
		t.Errorf("unexpected analytics: %+v", analytics)
	}
	if analytics.TopAssignee == nil || analytics.TopAssignee.ID != e.member.ID {
		t.Errorf("unexpected top assignee: %+v", analytics.TopAssignee)
	}

	if _, err := e.reports.TaskAnalytics(ctx, e.other, p.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("cross-tenant analytics: expected ErrUnauthorized, got %v", err)
	}
	if _, err := e.reports.TaskAnalytics(ctx, e.member, 0); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("zero id: expected validation error, got %v", err)
	}

	if _, err := e.reports.UserWorkload(ctx, e.member, e.org.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("member workload: expected ErrUnauthorized, got %v", err)
	}
	rows, err := e.reports.UserWorkload(ctx, e.manager, e.org.ID)
	if err != nil {
		t.Fatalf("workload: %v", err)
	}
	if len(rows) != 3 || rows[0].UserID != e.member.ID || rows[0].TotalHours != 5 {
		t.Errorf("unexpected workload rows: %+v", rows)
	}

	comparison, err := e.reports.ProjectComparison(ctx, e.admin, e.org.ID)
	if err != nil {
		t.Fatalf("comparison: %v", err)
	}
	if len(comparison) != 1 || comparison[0].ID != p.ID {
		t.Errorf("unexpected comparison: %+v", comparison)
	}

	if _, err := e.reports.ProjectComparison(ctx, e.admin, 9999); !errors.Is(err, apperrors.ErrOrganizationNotFound) {
		t.Errorf("missing org: expected not found, got %v", err)
	}

	again, err := e.reports.RunTaskAnalytics(ctx, p.ID)
	if err != nil || again.TotalTasks != analytics.TotalTasks {
		t.Errorf("reports must be idempotent: %v %v", again, err)
	}
}
