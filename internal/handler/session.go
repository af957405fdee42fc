package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-hub/internal/repository"
)

// SessionHandler lists the charging pads. The list is small and
// nearly static; the response cache middleware keeps this endpoint
// cheap.
type SessionHandler struct {
	Sessions *repository.SessionRepo
}

func NewSessionHandler(s *repository.SessionRepo) *SessionHandler {
	return &SessionHandler{Sessions: s}
}

type sessionResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// List returns every charging session. GET /v1/sessions
func (h *SessionHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Sessions.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]sessionResp, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResp{ID: s.ID, Name: s.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": out})
}
