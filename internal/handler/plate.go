package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-hub/internal/repository"
	"github.com/iliyamo/ev-charge-hub/internal/utils"
)

// PlateHandler serves licence plate checks: format verification with
// an optional overlap probe for the booking form, and the camera-side
// match lookup used by the telemetry path.
type PlateHandler struct {
	Reservations *repository.ReservationRepo
}

func NewPlateHandler(r *repository.ReservationRepo) *PlateHandler {
	return &PlateHandler{Reservations: r}
}

type verifyPlateReq struct {
	Plate     string `json:"plate"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type matchPlateReq struct {
	Plate string `json:"plate"`
}

// Verify validates plate format and, when a window is supplied,
// reports whether the plate already holds an overlapping booking.
// POST /v1/plates/verify
func (h *PlateHandler) Verify(c echo.Context) error {
	var req verifyPlateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	normalized := utils.NormalizePlate(req.Plate)
	if !utils.ValidPlate(req.Plate) {
		return c.JSON(http.StatusOK, echo.Map{
			"plate":       normalized,
			"valid":       false,
			"conflicting": false,
		})
	}

	conflicting := false
	if req.Date != "" && req.StartTime != "" && req.EndTime != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		_, err := h.Reservations.FindConflictingPlate(ctx, req.Plate, req.Date, req.StartTime, req.EndTime)
		switch {
		case err == nil:
			conflicting = true
		case errors.Is(err, repository.ErrNotFound):
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"plate":       normalized,
		"valid":       true,
		"conflicting": conflicting,
	})
}

// Match resolves a detected plate to the reservation active right
// now, if any. Camera units post here when they cannot reach the
// broker. POST /v1/plates/match
func (h *PlateHandler) Match(c echo.Context) error {
	var req matchPlateReq
	if err := c.Bind(&req); err != nil || req.Plate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plate required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.FindActiveByPlate(ctx, req.Plate, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"matched": false})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"matched":        true,
		"reservation_id": res.ID,
		"session_id":     res.SessionID,
		"start_time":     res.StartTime,
		"end_time":       res.EndTime,
	})
}
