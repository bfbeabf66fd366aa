package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskboard.com/taskboard/internal/data_models"
)

func (h *Handler) ListProjects(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var q dto.ProjectListQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	page, err := h.projects.List(c.Request().Context(), a, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageResponse(page))
}

func (h *Handler) CreateProject(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.projects.Create(c.Request().Context(), a, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

func (h *Handler) GetProject(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	project, err := h.projects.Get(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (h *Handler) UpdateProject(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.projects.Update(c.Request().Context(), a, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (h *Handler) DeleteProject(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.projects.Delete(c.Request().Context(), a, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RestoreProject(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	project, err := h.projects.Restore(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}
