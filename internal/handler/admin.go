package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-hub/internal/repository"
	"github.com/iliyamo/ev-charge-hub/internal/schedule"
)

// AdminHandler serves the operator console. The console works on the
// 09:00-22:00 staffed-hours grid; reservations outside those hours
// still appear in the overview so the operator sees the whole day.
type AdminHandler struct {
	Sessions     *repository.SessionRepo
	Reservations *repository.ReservationRepo
	Grid         schedule.Grid
	Sensor       schedule.SensorFunc
}

func NewAdminHandler(s *repository.SessionRepo, r *repository.ReservationRepo, grid schedule.Grid, sensor schedule.SensorFunc) *AdminHandler {
	return &AdminHandler{Sessions: s, Reservations: r, Grid: grid, Sensor: sensor}
}

type sessionOverview struct {
	SessionID     uint64            `json:"session_id"`
	SessionName   string            `json:"session_name"`
	Reservations  []reservationResp `json:"reservations"`
	OccupiedSlots []string          `json:"occupied_slots"`
	FreePercent   int               `json:"free_percent"`
	Tier          string            `json:"tier"`
}

// Overview returns every session's reservations and grid occupancy
// for one day. GET /v1/admin/overview?date=
func (h *AdminHandler) Overview(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	sessions, err := h.Sessions.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	grouped, err := h.Reservations.ListByDate(ctx, sessions, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now()
	out := make([]sessionOverview, 0, len(grouped))
	for _, g := range grouped {
		occ := schedule.BuildOccupancy(g.Reservations)
		free := schedule.FreePercent(h.Grid.Len(), occ.Len())
		ov := sessionOverview{
			SessionID:     g.SessionID,
			SessionName:   g.Name,
			Reservations:  make([]reservationResp, 0, len(g.Reservations)),
			OccupiedSlots: sortedSlots(occ),
			FreePercent:   free,
			Tier:          schedule.Classify(free),
		}
		for _, r := range g.Reservations {
			d := schedule.Derive(r, now, h.Sensor)
			rr := reservationResp{
				ID:         r.ID,
				SessionID:  r.SessionID,
				Plate:      r.Plate,
				Date:       r.Date,
				StartTime:  r.StartTime,
				EndTime:    r.EndTime,
				Status:     r.Status,
				Phase:      d.Phase,
				Label:      d.Label,
				Subtext:    d.Subtext,
				BadgeClass: d.BadgeClass,
			}
			if r.ContactEmail != nil {
				rr.ContactEmail = *r.ContactEmail
			}
			ov.Reservations = append(ov.Reservations, rr)
		}
		out = append(out, ov)
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "sessions": out})
}

// Delete removes any reservation regardless of owner.
// DELETE /v1/admin/reservations/:id
func (h *AdminHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
