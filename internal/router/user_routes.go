package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-hub/internal/handler"
	"github.com/iliyamo/ev-charge-hub/internal/middleware"
)

// RegisterPublic registers unauthenticated browse endpoints.  Guests can
// see the list of pads, each pad's booked windows for a day and the
// availability strip before deciding to sign in and book.  The camera
// match endpoint is also public: pad-side units authenticate at the
// network level, not with JWTs.
func RegisterPublic(e *echo.Echo, s *handler.SessionHandler, r *handler.ReservationHandler, av *handler.AvailabilityHandler, p *handler.PlateHandler, b *handler.BatteryHandler) {
	e.GET("/v1/sessions", s.List)
	e.GET("/v1/reservations/by-session", r.BySession)
	e.GET("/v1/availability", av.Strip)
	e.POST("/v1/plates/match", p.Match)
	e.GET("/v1/battery", b.Current)
}

// RegisterUser registers driver-scoped endpoints under /v1.  All routes
// require a valid JWT with the USER or ADMIN role.  Drivers book single
// windows or batches of hour blocks, list their own reservations and
// cancel them, and can pre-verify a plate before submitting.
func RegisterUser(e *echo.Echo, h *handler.ReservationHandler, p *handler.PlateHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("USER", "ADMIN"),
	)
	g.POST("/reservations", h.Create)
	g.POST("/reservations/batch", h.CreateBatch)
	g.GET("/reservations/my", h.My)
	g.DELETE("/reservations/:id", h.Cancel)
	g.POST("/plates/verify", p.Verify)
}

// RegisterAdmin registers the operator console endpoints under
// /v1/admin.  All routes require the ADMIN role.  The availability
// strip is mounted here too so the admin view reaches the handler with
// the role claim populated by the JWT middleware.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, av *handler.AvailabilityHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.GET("/overview", h.Overview)
	g.GET("/availability", av.Strip)
	g.DELETE("/reservations/:id", h.Delete)
}
