package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) ProjectAnalytics(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	report, err := h.reports.TaskAnalytics(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) UserWorkload(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	rows, err := h.reports.UserWorkload(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

func (h *Handler) ProjectComparison(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	rows, err := h.reports.ProjectComparison(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
