package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/uzima-retreat/booking-service/internal/dto"
	"github.com/uzima-retreat/booking-service/internal/service"
)

type CheckInHandler struct {
	svc service.CheckInService
}

func NewCheckInHandler(svc service.CheckInService) *CheckInHandler {
	return &CheckInHandler{svc: svc}
}

func (h *CheckInHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/checkin", h.CheckIn)
	e.POST("/api/v1/bookings/:id/undo-checkin", h.UndoCheckIn)
}

// CheckIn always answers 200 with a structured result: an unknown or revoked
// code is a scan outcome for the staff device, not an HTTP failure.
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	var req dto.CheckInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.svc.CheckIn(c.Request().Context(), req.Code)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := dto.CheckInResponse{
		Valid:            result.Valid,
		AlreadyCheckedIn: result.AlreadyCheckedIn,
		Reason:           result.Reason,
	}
	if result.Valid && result.Booking != nil {
		b := dto.ToBookingResponse(result.Booking)
		resp.Booking = &b
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CheckInHandler) UndoCheckIn(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.UndoCheckIn(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}
