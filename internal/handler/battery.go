package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// BatteryHandler exposes the last battery reading reported by the
// pad-side camera. The reading lives in Redis with a short TTL, so a
// missing key simply means no vehicle has reported recently.
type BatteryHandler struct {
	Redis *redis.Client
}

func NewBatteryHandler(rdb *redis.Client) *BatteryHandler { return &BatteryHandler{Redis: rdb} }

// Current returns the latest reading or {"available": false}.
// GET /v1/battery
func (h *BatteryHandler) Current(c echo.Context) error {
	if h.Redis == nil {
		return c.JSON(http.StatusOK, echo.Map{"available": false})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	raw, err := h.Redis.Get(ctx, "battery:now").Result()
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"available": false})
	}
	var state map[string]any
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"available": false})
	}
	state["available"] = true
	return c.JSON(http.StatusOK, state)
}
