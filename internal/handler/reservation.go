package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-hub/internal/config"
	"github.com/iliyamo/ev-charge-hub/internal/model"
	"github.com/iliyamo/ev-charge-hub/internal/queue"
	"github.com/iliyamo/ev-charge-hub/internal/repository"
	"github.com/iliyamo/ev-charge-hub/internal/schedule"
	queue_publisher "github.com/iliyamo/ev-charge-hub/internal/service"
	"github.com/iliyamo/ev-charge-hub/internal/utils"
)

// ReservationHandler serves the driver-facing booking endpoints. The
// user portal books on the full-day grid; validation here re-runs the
// same slot checks the portal ran client-side, and the slot table's
// unique key has the final word under concurrency.
type ReservationHandler struct {
	Cfg          config.Config
	Sessions     *repository.SessionRepo
	Reservations *repository.ReservationRepo
	Grid         schedule.Grid
	Sensor       schedule.SensorFunc
}

func NewReservationHandler(cfg config.Config, s *repository.SessionRepo, r *repository.ReservationRepo, grid schedule.Grid, sensor schedule.SensorFunc) *ReservationHandler {
	return &ReservationHandler{Cfg: cfg, Sessions: s, Reservations: r, Grid: grid, Sensor: sensor}
}

// ----- DTOs -----

type createReservationReq struct {
	SessionID    uint64 `json:"session_id"`
	Plate        string `json:"plate"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	ContactEmail string `json:"contact_email"`
}

type createBatchReq struct {
	SessionID    uint64   `json:"session_id"`
	Plate        string   `json:"plate"`
	Date         string   `json:"date"`
	Starts       []string `json:"starts"` // 60-minute blocks
	ContactEmail string   `json:"contact_email"`
}

type reservationResp struct {
	ID           string `json:"id"`
	SessionID    uint64 `json:"session_id"`
	Plate        string `json:"plate"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Status       string `json:"status"`
	Phase        string `json:"phase"`
	Label        string `json:"label"`
	Subtext      string `json:"subtext"`
	BadgeClass   string `json:"badge_class"`
	ContactEmail string `json:"contact_email,omitempty"`
}

func (h *ReservationHandler) toResp(r model.Reservation, now time.Time) reservationResp {
	d := schedule.Derive(r, now, h.Sensor)
	out := reservationResp{
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
		out.ContactEmail = *r.ContactEmail
	}
	return out
}

// BySession lists one session's reservations for a calendar day with
// their derived display state. GET /v1/reservations/by-session?session_id=&date=
func (h *ReservationHandler) BySession(c echo.Context) error {
	sessionID, err := strconv.ParseUint(c.QueryParam("session_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id required"})
	}
	date := c.QueryParam("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	session, err := h.Sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	reservations, err := h.Reservations.ListBySessionAndDate(ctx, sessionID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	now := time.Now()
	out := make([]reservationResp, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, h.toResp(r, now))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session_id":   session.ID,
		"session_name": session.Name,
		"date":         date,
		"reservations": out,
	})
}

// Create books a single window. POST /v1/reservations
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := h.validateWindow(req.Date, req.StartTime, req.EndTime, req.Plate); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	session, err := h.Sessions.Get(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	res, err := h.Reservations.Create(ctx, repository.CreateParams{
		SessionID:    req.SessionID,
		Plate:        req.Plate,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ContactEmail: h.contactEmail(c, req.ContactEmail),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot no longer available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}

	h.publishCreated(res, session.Name)
	return c.JSON(http.StatusCreated, h.toResp(res, time.Now()))
}

// CreateBatch books several independent 60-minute blocks in one
// all-or-nothing call. POST /v1/reservations/batch
func (h *ReservationHandler) CreateBatch(c echo.Context) error {
	var req createBatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Starts) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts required"})
	}

	// Validate and sort the members; every block is exactly one hour
	// and the blocks must not overlap each other.
	starts := append([]string(nil), req.Starts...)
	sort.Strings(starts)
	for i, s := range starts {
		if i > 0 && s == starts[i-1] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate block " + s})
		}
		end, err := schedule.EndTime(s, schedule.BatchSlotMinutes)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start time " + s})
		}
		if msg := h.validateWindow(req.Date, s, end, req.Plate); msg != "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
		}
		if i > 0 && schedule.IsBlocked(s, schedule.BatchSlotMinutes, nil, h.Grid.DayEndMinutes(), starts[:i]) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "overlapping blocks in batch"})
		}
	}

	windows := make([]schedule.Window, 0, len(starts))
	for _, s := range starts {
		windows = append(windows, schedule.Window{Start: s, DurationMin: schedule.BatchSlotMinutes})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	session, err := h.Sessions.Get(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	created, err := h.Reservations.CreateBatch(ctx, repository.CreateParams{
		SessionID:    req.SessionID,
		Plate:        req.Plate,
		Date:         req.Date,
		ContactEmail: h.contactEmail(c, req.ContactEmail),
	}, windows)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "one or more blocks no longer available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create batch failed"})
	}

	now := time.Now()
	out := make([]reservationResp, 0, len(created))
	for _, r := range created {
		h.publishCreated(r, session.Name)
		out = append(out, h.toResp(r, now))
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservations": out})
}

// My lists the caller's reservations, matched by token email and
// optionally narrowed by plate. GET /v1/reservations/my?plate=
func (h *ReservationHandler) My(c echo.Context) error {
	email, _ := c.Get("email").(string)
	plate := c.QueryParam("plate")
	if email == "" && plate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plate required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reservations, err := h.Reservations.ForUser(ctx, email, plate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	now := time.Now()
	out := make([]reservationResp, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, h.toResp(r, now))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Cancel removes the caller's reservation. The lookup is scoped to
// the token email (plus plate when given) so one driver cannot cancel
// another's booking by guessing ids. DELETE /v1/reservations/:id
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id := c.Param("id")
	email, _ := c.Get("email").(string)
	plate := c.QueryParam("plate")
	if email == "" && plate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plate required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reservations.DeleteForUser(ctx, id, email, plate); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// validateWindow re-runs the grid-level checks: date shape, plate
// format, slot alignment and day bounds. Returns an error message or
// "" when valid.
func (h *ReservationHandler) validateWindow(date, start, end, plate string) string {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	if !utils.ValidPlate(plate) {
		return "invalid plate"
	}
	s, err := schedule.ToMinutes(start)
	if err != nil {
		return "invalid start_time"
	}
	e, err := schedule.ToMinutes(end)
	if err != nil {
		return "invalid end_time"
	}
	if s%schedule.SlotMinutes != 0 || e%schedule.SlotMinutes != 0 {
		return "times must align to 30-minute slots"
	}
	if e <= s {
		return "end_time must be after start_time"
	}
	if s < h.Grid.DayStartMinutes() || e > h.Grid.DayEndMinutes() {
		return "window outside operating hours"
	}
	return ""
}

// contactEmail picks the explicit body value, falling back to the
// token's email claim.
func (h *ReservationHandler) contactEmail(c echo.Context, explicit string) *string {
	v := strings.TrimSpace(explicit)
	if v == "" {
		v, _ = c.Get("email").(string)
	}
	if v == "" {
		return nil
	}
	v = strings.ToLower(v)
	return &v
}

// publishCreated emits the reservation.created event; failures are
// logged by the publisher and never fail the booking.
func (h *ReservationHandler) publishCreated(r model.Reservation, sessionName string) {
	ev := queue.ReservationCreatedEvent{
		ReservationID: r.ID,
		SessionID:     r.SessionID,
		SessionName:   sessionName,
		Plate:         r.Plate,
		Date:          r.Date,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.ContactEmail != nil {
		ev.ContactEmail = *r.ContactEmail
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationCreated(ctx, ev)
	}()
}
