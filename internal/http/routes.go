package http

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	middleware "taskboard.com/taskboard/internal/http/middlewares"
	"taskboard.com/taskboard/internal/http/validators"
	"taskboard.com/taskboard/internal/ratelimit"
)

// NewServer builds the echo instance with the global middleware stack and
// every route registered.
func NewServer(h *Handler, authenticator middleware.Authenticator, limiter ratelimit.Limiter, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.New()
	e.HTTPErrorHandler = ErrorHandler

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	if limiter != nil {
		e.Use(middleware.RateLimiter(limiter))
	}

	Register(e, h, middleware.Authenticate(authenticator))
	return e
}

func Register(e *echo.Echo, h *Handler, authed echo.MiddlewareFunc) {
	e.GET("/health", h.Health)
	e.POST("/register", h.Register)
	e.POST("/login", h.Login)

	e.POST("/logout", h.Logout, authed)
	e.GET("/me", h.Me, authed)

	e.GET("/organizations/:id", h.GetOrganization, authed)
	e.PUT("/organizations/:id", h.UpdateOrganization, authed)
	e.DELETE("/organizations/:id", h.DeleteOrganization, authed)
	e.POST("/organizations/:id/restore", h.RestoreOrganization, authed)
	e.GET("/organizations/:id/reports/workload", h.UserWorkload, authed)
	e.GET("/organizations/:id/reports/projects", h.ProjectComparison, authed)

	e.GET("/projects", h.ListProjects, authed)
	e.POST("/projects", h.CreateProject, authed)
	e.GET("/projects/:id", h.GetProject, authed)
	e.PUT("/projects/:id", h.UpdateProject, authed)
	e.DELETE("/projects/:id", h.DeleteProject, authed)
	e.POST("/projects/:id/restore", h.RestoreProject, authed)
	e.GET("/projects/:id/analytics", h.ProjectAnalytics, authed)

	e.GET("/tasks", h.ListTasks, authed)
	e.POST("/tasks", h.CreateTask, authed)
	e.GET("/tasks/:id", h.GetTask, authed)
	e.PUT("/tasks/:id", h.UpdateTask, authed)
	e.DELETE("/tasks/:id", h.DeleteTask, authed)
	e.POST("/tasks/:id/restore", h.RestoreTask, authed)

	e.GET("/users", h.ListUsers, authed)
	e.POST("/users", h.CreateUser, authed)
	e.GET("/users/:id", h.GetUser, authed)
	e.PUT("/users/:id", h.UpdateUser, authed)
	e.DELETE("/users/:id", h.DeleteUser, authed)
	e.POST("/users/:id/restore", h.RestoreUser, authed)
}
