package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-hub/internal/model"
	"github.com/iliyamo/ev-charge-hub/internal/schedule"
)

// stubFetcher serves empty days and records whether it was called, so a
// test can tell which aggregator handled the request. The flag is
// atomic because the aggregator fans fetches out across goroutines.
type stubFetcher struct {
	called atomic.Bool
	err    error
}

func (f *stubFetcher) SessionsByDate(ctx context.Context, dateISO string) ([]model.SessionReservations, error) {
	f.called.Store(true)
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func stripContext(target, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}
	return c, rec
}

func TestStrip_AdminViewRequiresAdminRole(t *testing.T) {
	userFetch := &stubFetcher{}
	adminFetch := &stubFetcher{}
	h := NewAvailabilityHandler(
		schedule.NewAggregator(userFetch, schedule.NewGrid(0, 24)),
		schedule.NewAggregator(adminFetch, schedule.NewGrid(9, 22)),
	)

	// Without a role claim the admin view is refused.
	c, rec := stripContext("/v1/availability?session_id=1&date=2026-03-10&view=admin", "")
	if err := h.Strip(c); err != nil {
		t.Fatalf("Strip: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if adminFetch.called.Load() {
		t.Error("admin aggregator must not run for a refused request")
	}

	// A USER token is refused too.
	c, rec = stripContext("/v1/availability?session_id=1&date=2026-03-10&view=admin", "USER")
	if err := h.Strip(c); err != nil {
		t.Fatalf("Strip: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	// An ADMIN token reaches the staffed-hours aggregator.
	c, rec = stripContext("/v1/admin/availability?session_id=1&date=2026-03-10&view=admin", "ADMIN")
	if err := h.Strip(c); err != nil {
		t.Fatalf("Strip: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !adminFetch.called.Load() {
		t.Error("admin view must be served by the admin aggregator")
	}
	if userFetch.called.Load() {
		t.Error("admin view must not touch the full-day aggregator")
	}
}

func TestStrip_FetchFailureReturnsBadGateway(t *testing.T) {
	broken := &stubFetcher{err: errors.New("backend unavailable")}
	h := NewAvailabilityHandler(
		schedule.NewAggregator(broken, schedule.NewGrid(0, 24)),
		schedule.NewAggregator(broken, schedule.NewGrid(9, 22)),
	)

	c, rec := stripContext("/v1/availability?session_id=1&date=2026-03-10", "")
	if err := h.Strip(c); err != nil {
		t.Fatalf("Strip: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

func TestStrip_BadDateReturnsBadRequest(t *testing.T) {
	f := &stubFetcher{}
	h := NewAvailabilityHandler(
		schedule.NewAggregator(f, schedule.NewGrid(0, 24)),
		schedule.NewAggregator(f, schedule.NewGrid(9, 22)),
	)

	c, rec := stripContext("/v1/availability?session_id=1&date=10-03-2026", "")
	if err := h.Strip(c); err != nil {
		t.Fatalf("Strip: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if f.called.Load() {
		t.Error("malformed date must be rejected before any fetch")
	}
}
