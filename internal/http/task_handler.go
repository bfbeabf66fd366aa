package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskboard.com/taskboard/internal/data_models"
)

func (h *Handler) ListTasks(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var q dto.TaskListQuery
	if err := bind(c, &q); err != nil {
		return err
	}

	page, err := h.tasks.List(c.Request().Context(), a, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageResponse(page))
}

func (h *Handler) CreateTask(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Request().Context(), a, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.Get(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.Update(c.Request().Context(), a, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.tasks.Delete(c.Request().Context(), a, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RestoreTask(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.Restore(c.Request().Context(), a, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}
