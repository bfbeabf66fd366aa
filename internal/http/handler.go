package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	dto "taskboard.com/taskboard/internal/data_models"
	apperrors "taskboard.com/taskboard/internal/errors"
	middleware "taskboard.com/taskboard/internal/http/middlewares"
	repository "taskboard.com/taskboard/internal/repositories"
	"taskboard.com/taskboard/internal/services"
	model "taskboard.com/taskboard/pkg/models"
)

type Services struct {
	Organizations *services.OrganizationService
	Users         *services.UserService
	Projects      *services.ProjectService
	Tasks         *services.TaskService
	Reports       *services.ReportService
	Auth          *services.AuthService
}

type Handler struct {
	orgs     *services.OrganizationService
	users    *services.UserService
	projects *services.ProjectService
	tasks    *services.TaskService
	reports  *services.ReportService
	auth     *services.AuthService
	ping     func(ctx context.Context) error
}

// NewHandler wires the services into echo handlers. ping backs /health.
func NewHandler(s Services, ping func(ctx context.Context) error) *Handler {
	return &Handler{
		orgs:     s.Organizations,
		users:    s.Users,
		projects: s.Projects,
		tasks:    s.Tasks,
		reports:  s.Reports,
		auth:     s.Auth,
		ping:     ping,
	}
}

// ErrorHandler renders every error as {"message": ...}, adding per-field
// errors for validation failures. Internal errors are logged, not exposed.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := apperrors.StatusCode(err)
	body := echo.Map{"message": apperrors.Message(err)}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		body["message"] = http.StatusText(he.Code)
		if msg, ok := he.Message.(string); ok {
			body["message"] = msg
		}
	}
	if fields := apperrors.Fields(err); len(fields) > 0 {
		body["errors"] = fields
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "unhandled error",
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, body)
}

func (h *Handler) Health(c echo.Context) error {
	if h.ping != nil {
		if err := h.ping(c.Request().Context()); err != nil {
			slog.ErrorContext(c.Request().Context(), "health check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// bind decodes the request into req and runs struct validation.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		if c.Request().Method == http.MethodGet {
			return apperrors.Validation("invalid query parameters")
		}
		return apperrors.ErrInvalidJSON
	}
	return c.Validate(req)
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidID
	}
	return uint(id), nil
}

func actor(c echo.Context) (*model.User, error) {
	a := middleware.ActorFrom(c)
	if a == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return a, nil
}

func pageResponse[T any](p *repository.Page[T]) dto.PageResponse[T] {
	return dto.PageResponse[T]{
		Data:    p.Items,
		Total:   p.Total,
		Page:    p.Page,
		PerPage: p.PerPage,
	}
}
