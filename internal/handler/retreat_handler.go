package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/uzima-retreat/booking-service/internal/dto"
	"github.com/uzima-retreat/booking-service/internal/models"
	"github.com/uzima-retreat/booking-service/internal/service"
)

type RetreatHandler struct {
	svc service.RetreatService
}

func NewRetreatHandler(svc service.RetreatService) *RetreatHandler {
	return &RetreatHandler{svc: svc}
}

func (h *RetreatHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateRetreat)
	g.GET("", h.ListRetreats)
	g.GET("/:id", h.GetRetreat)
	g.GET("/slug/:slug", h.GetRetreatBySlug)
	g.PATCH("/:id", h.UpdateRetreat)
	g.DELETE("/:id", h.DeleteRetreat)
}

func (h *RetreatHandler) CreateRetreat(c echo.Context) error {
	var req dto.CreateRetreatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	retreat := &models.Retreat{
		Slug:           req.Slug,
		Title:          req.Title,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Location:       req.Location,
		Capacity:       req.Capacity,
		CapacityMale:   req.CapacityMale,
		CapacityFemale: req.CapacityFemale,
		IsPaid:         req.IsPaid,
		Price:          req.Price,
	}

	if err := h.svc.CreateRetreat(c.Request().Context(), retreat); err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.ToRetreatResponse(retreat))
}

func (h *RetreatHandler) GetRetreat(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid retreat id")
	}

	retreat, err := h.svc.GetRetreat(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrRetreatNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToRetreatResponse(retreat))
}

func (h *RetreatHandler) GetRetreatBySlug(c echo.Context) error {
	retreat, err := h.svc.GetRetreatBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrRetreatNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToRetreatResponse(retreat))
}

func (h *RetreatHandler) ListRetreats(c echo.Context) error {
	retreats, err := h.svc.ListRetreats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RetreatResponse, len(retreats))
	for i, r := range retreats {
		resp[i] = dto.ToRetreatResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *RetreatHandler) UpdateRetreat(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid retreat id")
	}

	var req dto.UpdateRetreatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	retreat, err := h.svc.UpdateRetreat(c.Request().Context(), uint(id), req.Fields())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRetreatNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNoFieldsToUpdate):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToRetreatResponse(retreat))
}

func (h *RetreatHandler) DeleteRetreat(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid retreat id")
	}

	if err := h.svc.DeleteRetreat(c.Request().Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrRetreatNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRetreatHasBookings):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.NoContent(http.StatusNoContent)
}
