package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Eursukkul/registration-service/internal/dto"
	"github.com/Eursukkul/registration-service/internal/middleware"
	"github.com/Eursukkul/registration-service/internal/policy"
	"github.com/Eursukkul/registration-service/internal/service"
	"github.com/labstack/echo/v4"
)

type RegistrationHandler struct {
	svc service.RegistrationService
}

func NewRegistrationHandler(svc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

// RegisterRoutes mounts the registration endpoints on g. The group is expected
// to run middleware.Identity.
func (h *RegistrationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListRegistrations)
	g.POST("", h.CreateRegistration)
	g.GET("/users/:userId", h.ListUserRegistrations)
	g.GET("/:id", h.GetRegistration)
	g.PUT("/:id", h.UpdateRegistration)
	g.PATCH("/:id/check-in", h.CheckIn)
	g.PATCH("/:id/cancel", h.Cancel)
	g.DELETE("/:id", h.DeleteRegistration)
}

func (h *RegistrationHandler) ListRegistrations(c echo.Context) error {
	requester, err := requesterOf(c)
	if err != nil {
		return err
	}

	regs, err := h.svc.ListRegistrations(c.Request().Context(), requester)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRegistrationResponses(regs))
}

func (h *RegistrationHandler) ListUserRegistrations(c echo.Context) error {
	requester, err := requesterOf(c)
	if err != nil {
		return err
	}

	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	regs, err := h.svc.ListUserRegistrations(c.Request().Context(), requester, userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRegistrationResponses(regs))
}

func (h *RegistrationHandler) GetRegistration(c echo.Context) error {
	requester, id, err := requesterAndID(c)
	if err != nil {
		return err
	}

	reg, err := h.svc.GetRegistration(c.Request().Context(), requester, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) CreateRegistration(c echo.Context) error {
	requester, err := requesterOf(c)
	if err != nil {
		return err
	}

	var req dto.CreateRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.EventID = strings.TrimSpace(req.EventID)
	req.UserID = strings.TrimSpace(req.UserID)
	if req.EventID == "" || req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "event_id and user_id are required")
	}

	reg, err := h.svc.CreateRegistration(c.Request().Context(), requester, req.EventID, req.UserID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) UpdateRegistration(c echo.Context) error {
	requester, id, err := requesterAndID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if !req.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be one of CONFIRMED, CHECKED_IN, CANCELED, DELETED")
	}

	reg, err := h.svc.UpdateRegistration(c.Request().Context(), requester, id, req.Status, req.CheckIn)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) CheckIn(c echo.Context) error {
	requester, id, err := requesterAndID(c)
	if err != nil {
		return err
	}

	reg, err := h.svc.CheckIn(c.Request().Context(), requester, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) Cancel(c echo.Context) error {
	requester, id, err := requesterAndID(c)
	if err != nil {
		return err
	}

	reg, err := h.svc.Cancel(c.Request().Context(), requester, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) DeleteRegistration(c echo.Context) error {
	requester, id, err := requesterAndID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), requester, id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func requesterOf(c echo.Context) (policy.Requester, error) {
	requester, ok := middleware.RequesterFrom(c)
	if !ok {
		return policy.Requester{}, echo.NewHTTPError(http.StatusUnauthorized, "missing caller identity")
	}
	return requester, nil
}

func requesterAndID(c echo.Context) (policy.Requester, string, error) {
	requester, err := requesterOf(c)
	if err != nil {
		return policy.Requester{}, "", err
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return policy.Requester{}, "", echo.NewHTTPError(http.StatusBadRequest, "invalid registration id")
	}
	return requester, id, nil
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}
