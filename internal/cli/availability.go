package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/ev-charge-hub/internal/schedule"
)

// AvailabilityCmd renders the date-picker strip for one pad. The strip
// is computed locally from the raw per-day reservation lists so the
// command works against servers that predate the /v1/availability
// endpoint.
type AvailabilityCmd struct {
	Session uint64 `arg:"" help:"Charging session id."`
	Date    string `help:"Anchor date (YYYY-MM-DD)." default:""`
}

func (c *AvailabilityCmd) Run(appCtx *Context) error {
	anchor := c.Date
	if anchor == "" {
		anchor = time.Now().Format("2006-01-02")
	}

	agg := schedule.NewAggregator(appCtx.API, appCtx.Grid)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	snap, err := agg.Refresh(ctx, c.Session, anchor)
	if err != nil {
		return err
	}

	fmt.Printf("Availability for session %d around %s\n\n", snap.SessionID, snap.AnchorDate)
	for _, d := range snap.Days {
		marker := " "
		if d.Date == snap.AnchorDate {
			marker = "*"
		}
		fmt.Printf("%s %-6s %-10s %3d%% free  [%s]\n", marker, d.Label, d.Date, d.FreePercent, d.Tier)
	}
	if snap.AnchorOccupancy.Len() > 0 {
		fmt.Printf("\nBooked slots on %s: %s\n", snap.AnchorDate,
			strings.Join(sortedOccupancy(snap.AnchorOccupancy), " "))
	}
	return nil
}
