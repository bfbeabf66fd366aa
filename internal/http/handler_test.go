package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"taskboard.com/taskboard/internal/auth"
	config "taskboard.com/taskboard/internal/configs"
	httpapi "taskboard.com/taskboard/internal/http"
	"taskboard.com/taskboard/internal/ratelimit"
	repository "taskboard.com/taskboard/internal/repositories"
	"taskboard.com/taskboard/internal/services"
)

type apiClient struct {
	e *echo.Echo
}

func (a apiClient) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		payload, err := json.Marshal(b)
		Expect(err).NotTo(HaveOccurred())
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(Succeed())
	return out
}

func newTestDB() *gorm.DB {
	db, err := config.Open(config.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	Expect(err).NotTo(HaveOccurred())
	Expect(config.Migrate(db)).To(Succeed())

	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)
	DeferCleanup(sqlDB.Close)
	return db
}

func newServer(db *gorm.DB, limiter ratelimit.Limiter) *echo.Echo {
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	issuer, err := auth.NewTokenIssuer("spec-secret", time.Hour)
	Expect(err).NotTo(HaveOccurred())
	authService := services.NewAuthService(userRepo, issuer, auth.NewMemoryRevocationStore())

	h := httpapi.NewHandler(httpapi.Services{
		Organizations: services.NewOrganizationService(db, orgRepo, userRepo),
		Users:         services.NewUserService(userRepo),
		Projects:      services.NewProjectService(projectRepo),
		Tasks:         services.NewTaskService(taskRepo, projectRepo, userRepo),
		Reports:       services.NewReportService(repository.NewReportRepository(db), projectRepo, orgRepo),
		Auth:          authService,
	}, nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpapi.NewServer(h, authService, limiter, logger)
}

func register(api apiClient, org, email string) (token string, orgID int) {
	rec := api.do(http.MethodPost, "/register", "", map[string]any{
		"organization_name": org,
		"name":              "Owner of " + org,
		"email":             email,
		"password":          "password1",
	})
	Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
	body := decode(rec)
	return body["token"].(string), int(body["organization"].(map[string]any)["id"].(float64))
}

func login(api apiClient, email string) string {
	rec := api.do(http.MethodPost, "/login", "", map[string]any{"email": email, "password": "password1"})
	Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
	return decode(rec)["token"].(string)
}

func createUser(api apiClient, adminToken, email, role string) {
	rec := api.do(http.MethodPost, "/users", adminToken, map[string]any{
		"name": email, "email": email, "password": "password1", "role": role,
	})
	Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
}

func idOf(rec *httptest.ResponseRecorder) int {
	return int(decode(rec)["id"].(float64))
}

var _ = Describe("HTTP API", func() {
	var (
		api        apiClient
		adminToken string
		orgID      int
	)

	BeforeEach(func() {
		api = apiClient{e: newServer(newTestDB(), nil)}
		adminToken, orgID = register(api, "Acme", "ada@acme.test")
	})

	Describe("public endpoints", func() {
		It("reports health", func() {
			rec := api.do(http.MethodGet, "/health", "", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode(rec)).To(HaveKeyWithValue("status", "ok"))
		})

		It("rejects a duplicate registration email", func() {
			rec := api.do(http.MethodPost, "/register", "", map[string]any{
				"organization_name": "Other", "name": "A", "email": "ada@acme.test", "password": "password1",
			})
			Expect(rec.Code).To(Equal(http.StatusConflict))
		})

		It("returns field errors for invalid payloads", func() {
			rec := api.do(http.MethodPost, "/register", "", map[string]any{"email": "not-an-email"})
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
			errs := decode(rec)["errors"].(map[string]any)
			Expect(errs).To(HaveKey("organization_name"))
			Expect(errs).To(HaveKey("email"))
			Expect(errs).To(HaveKey("password"))
		})

		It("rejects malformed JSON", func() {
			rec := api.do(http.MethodPost, "/login", "", `{"email":`)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects bad credentials", func() {
			rec := api.do(http.MethodPost, "/login", "", map[string]any{"email": "ada@acme.test", "password": "nope-nope"})
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("authentication", func() {
		It("requires a bearer token", func() {
			Expect(api.do(http.MethodGet, "/me", "", nil).Code).To(Equal(http.StatusUnauthorized))
			Expect(api.do(http.MethodGet, "/projects", "garbage", nil).Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns the actor and never exposes the password hash", func() {
			rec := api.do(http.MethodGet, "/me", adminToken, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode(rec)).To(HaveKeyWithValue("email", "ada@acme.test"))
			Expect(rec.Body.String()).NotTo(ContainSubstring("password"))
		})

		It("revokes the token on logout", func() {
			Expect(api.do(http.MethodPost, "/logout", adminToken, nil).Code).To(Equal(http.StatusNoContent))
			Expect(api.do(http.MethodGet, "/me", adminToken, nil).Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("projects and tasks", func() {
		var (
			memberToken string
			projectID   int
		)

		BeforeEach(func() {
			createUser(api, adminToken, "mia@acme.test", "member")
			memberToken = login(api, "mia@acme.test")

			rec := api.do(http.MethodPost, "/projects", adminToken, map[string]any{
				"name": "Launch Plan", "start_date": "2024-01-01", "end_date": "2024-03-31",
			})
			Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
			body := decode(rec)
			Expect(body).To(HaveKeyWithValue("slug", "launch-plan"))
			projectID = int(body["id"].(float64))
		})

		It("forbids members from creating projects", func() {
			rec := api.do(http.MethodPost, "/projects", memberToken, map[string]any{"name": "Nope"})
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(decode(rec)).To(HaveKeyWithValue("message", "this action is unauthorized"))
		})

		It("validates path ids and reports missing rows", func() {
			Expect(api.do(http.MethodGet, "/projects/abc", adminToken, nil).Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(api.do(http.MethodGet, "/projects/0", adminToken, nil).Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(api.do(http.MethodGet, "/projects/9999", adminToken, nil).Code).To(Equal(http.StatusNotFound))
		})

		It("paginates listings", func() {
			for i := 0; i < 3; i++ {
				rec := api.do(http.MethodPost, "/projects", adminToken, map[string]any{"name": fmt.Sprintf("Extra %d", i)})
				Expect(rec.Code).To(Equal(http.StatusCreated))
			}

			rec := api.do(http.MethodGet, "/projects?per_page=2&page=2", memberToken, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			body := decode(rec)
			Expect(body).To(HaveKeyWithValue("total", BeNumerically("==", 4)))
			Expect(body).To(HaveKeyWithValue("page", BeNumerically("==", 2)))
			Expect(body["data"]).To(HaveLen(2))

			Expect(api.do(http.MethodGet, "/projects?per_page=500", memberToken, nil).Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("isolates tenants", func() {
			otherToken, _ := register(api, "Globex", "gus@globex.test")
			Expect(api.do(http.MethodGet, fmt.Sprintf("/projects/%d", projectID), otherToken, nil).Code).To(Equal(http.StatusForbidden))

			rec := api.do(http.MethodGet, "/projects", otherToken, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode(rec)["data"]).To(BeEmpty())
		})

		It("tracks task progress into the project analytics", func() {
			rec := api.do(http.MethodPost, "/tasks", memberToken, map[string]any{
				"project_id": projectID, "title": "Draft copy", "estimated_hours": 4, "priority": "high",
			})
			Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
			taskID := idOf(rec)

			rec = api.do(http.MethodPut, fmt.Sprintf("/tasks/%d", taskID), memberToken, map[string]any{
				"status": "completed", "actual_hours": 2,
			})
			Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
			Expect(decode(rec)["completed_at"]).NotTo(BeNil())

			rec = api.do(http.MethodGet, fmt.Sprintf("/projects/%d/analytics", projectID), memberToken, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			report := decode(rec)
			Expect(report).To(HaveKeyWithValue("total_tasks", BeNumerically("==", 1)))
			Expect(report).To(HaveKeyWithValue("completion_rate", BeNumerically("==", 100)))
			Expect(report).To(HaveKeyWithValue("efficiency_percentage", BeNumerically("==", 50)))
			Expect(report).To(HaveKeyWithValue("top_assignee", BeNil()))
		})

		It("rejects an end date before the start date on update", func() {
			rec := api.do(http.MethodPut, fmt.Sprintf("/projects/%d", projectID), adminToken, map[string]any{"end_date": "2023-12-31"})
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("soft deletes and restores projects", func() {
			path := fmt.Sprintf("/projects/%d", projectID)
			Expect(api.do(http.MethodDelete, path, memberToken, nil).Code).To(Equal(http.StatusForbidden))
			Expect(api.do(http.MethodDelete, path, adminToken, nil).Code).To(Equal(http.StatusNoContent))
			Expect(api.do(http.MethodGet, path, adminToken, nil).Code).To(Equal(http.StatusNotFound))

			rec := api.do(http.MethodGet, "/projects?with_deleted=true", adminToken, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode(rec)["data"]).To(HaveLen(1))

			Expect(api.do(http.MethodPost, path+"/restore", adminToken, nil).Code).To(Equal(http.StatusOK))
			Expect(api.do(http.MethodGet, path, adminToken, nil).Code).To(Equal(http.StatusOK))
		})

		It("limits organization reports to managers and admins", func() {
			path := fmt.Sprintf("/organizations/%d/reports/workload", orgID)
			Expect(api.do(http.MethodGet, path, memberToken, nil).Code).To(Equal(http.StatusForbidden))

			rec := api.do(http.MethodGet, path, adminToken, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode(rec)["data"]).To(HaveLen(2))

			rec = api.do(http.MethodGet, fmt.Sprintf("/organizations/%d/reports/projects", orgID), adminToken, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			rows := decode(rec)["data"].([]any)
			Expect(rows).To(HaveLen(1))
			Expect(rows[0]).To(HaveKeyWithValue("health_score", BeNumerically("==", 0)))
		})
	})

	Describe("users", func() {
		It("keeps admins from managing themselves", func() {
			me := decode(api.do(http.MethodGet, "/me", adminToken, nil))
			path := fmt.Sprintf("/users/%d", int(me["id"].(float64)))
			Expect(api.do(http.MethodDelete, path, adminToken, nil).Code).To(Equal(http.StatusForbidden))
		})

		It("soft deletes and restores users", func() {
			rec := api.do(http.MethodPost, "/users", adminToken, map[string]any{
				"name": "Lin", "email": "lin@acme.test", "password": "password1", "role": "member",
			})
			Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
			path := fmt.Sprintf("/users/%d", idOf(rec))

			Expect(api.do(http.MethodDelete, path, adminToken, nil).Code).To(Equal(http.StatusNoContent))
			Expect(api.do(http.MethodGet, path, adminToken, nil).Code).To(Equal(http.StatusNotFound))

			Expect(api.do(http.MethodPost, path+"/restore", adminToken, nil).Code).To(Equal(http.StatusOK))
			Expect(api.do(http.MethodGet, path, adminToken, nil).Code).To(Equal(http.StatusOK))
			Expect(api.do(http.MethodPost, path+"/restore", adminToken, nil).Code).To(Equal(http.StatusConflict))
		})

		It("filters users by role", func() {
			createUser(api, adminToken, "max@acme.test", "manager")
			createUser(api, adminToken, "mia@acme.test", "member")

			rec := api.do(http.MethodGet, "/users?role=manager", adminToken, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode(rec)).To(HaveKeyWithValue("total", BeNumerically("==", 1)))
		})
	})
})

var _ = Describe("rate limiting", func() {
	It("answers 429 once the window is used up", func() {
		limiter, err := ratelimit.NewMemoryLimiter(2, time.Minute)
		Expect(err).NotTo(HaveOccurred())
		api := apiClient{e: newServer(newTestDB(), limiter)}

		Expect(api.do(http.MethodGet, "/health", "", nil).Code).To(Equal(http.StatusOK))
		Expect(api.do(http.MethodGet, "/health", "", nil).Code).To(Equal(http.StatusOK))
		rec := api.do(http.MethodGet, "/health", "", nil)
		Expect(rec.Code).To(Equal(http.StatusTooManyRequests))
		Expect(rec.Header().Get("X-RateLimit-Remaining")).To(Equal("0"))
	})
})
