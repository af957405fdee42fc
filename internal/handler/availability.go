package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-hub/internal/model"
	"github.com/iliyamo/ev-charge-hub/internal/repository"
	"github.com/iliyamo/ev-charge-hub/internal/schedule"
)

// RepoFetcher adapts the repositories to the aggregator's fetch
// contract: one call returns every session's reservations for a day.
type RepoFetcher struct {
	Sessions     *repository.SessionRepo
	Reservations *repository.ReservationRepo
}

func (f *RepoFetcher) SessionsByDate(ctx context.Context, dateISO string) ([]model.SessionReservations, error) {
	sessions, err := f.Sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Reservations.ListByDate(ctx, sessions, dateISO)
}

// AvailabilityHandler serves the date-picker strip. Two aggregators
// share the fetcher: the driver portal sees the full-day grid, the
// operator console the 09:00-22:00 grid.
type AvailabilityHandler struct {
	UserAgg  *schedule.Aggregator
	AdminAgg *schedule.Aggregator
}

func NewAvailabilityHandler(userAgg, adminAgg *schedule.Aggregator) *AvailabilityHandler {
	return &AvailabilityHandler{UserAgg: userAgg, AdminAgg: adminAgg}
}

type dayResp struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	FreePercent int    `json:"free_percent"`
	Tier        string `json:"tier"`
}

// Strip computes the availability window for one session around an
// anchor date. Mounted publicly at GET /v1/availability and, for the
// admin view, under the ADMIN-gated GET /v1/admin/availability.
// Query: session_id=&date=&view=
func (h *AvailabilityHandler) Strip(c echo.Context) error {
	sessionID, err := strconv.ParseUint(c.QueryParam("session_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id required"})
	}
	anchor := c.QueryParam("date")
	if anchor == "" {
		anchor = time.Now().Format("2006-01-02")
	} else if _, perr := time.Parse("2006-01-02", anchor); perr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	agg := h.UserAgg
	if c.QueryParam("view") == "admin" {
		if role, _ := c.Get("role").(string); role != "ADMIN" {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		agg = h.AdminAgg
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	snap, err := agg.Refresh(ctx, sessionID, anchor)
	if err != nil {
		if errors.Is(err, schedule.ErrStaleRefresh) {
			// A newer request owns the strip now; tell the client to
			// keep what it has.
			return c.NoContent(http.StatusNoContent)
		}
		// The anchor was validated above, so anything left is a
		// backend fetch failure.
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "availability backend unavailable"})
	}

	days := make([]dayResp, 0, len(snap.Days))
	for _, d := range snap.Days {
		days = append(days, dayResp{Date: d.Date, Label: d.Label, FreePercent: d.FreePercent, Tier: d.Tier})
	}
	occupied := sortedSlots(snap.AnchorOccupancy)
	return c.JSON(http.StatusOK, echo.Map{
		"session_id":     snap.SessionID,
		"anchor_date":    snap.AnchorDate,
		"days":           days,
		"occupied_slots": occupied,
	})
}

// sortedSlots flattens the occupancy set; HH:MM strings sort
// chronologically.
func sortedSlots(occ schedule.OccupancySet) []string {
	out := make([]string, 0, occ.Len())
	for slot := range occ {
		out = append(out, slot)
	}
	sort.Strings(out)
	return out
}
