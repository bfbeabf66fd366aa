package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskboard.com/taskboard/internal/data_models"
	middleware "taskboard.com/taskboard/internal/http/middlewares"
)

func (h *Handler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	org, admin, err := h.orgs.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	token, err := h.auth.IssueFor(admin)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.RegisterResponse{
		Organization:  org,
		TokenResponse: *token,
	})
}

func (h *Handler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), middleware.ClaimsFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}
