package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/ev-charge-hub/internal/schedule"
)

// BookCmd books a single charging window. Before submitting it builds
// the day's occupancy and runs the draft planner so a duration that no
// longer fits at the requested start is repaired the same way the web
// portal repairs it, instead of bouncing off the server with a 409.
type BookCmd struct {
	Session  uint64 `arg:"" help:"Charging session id."`
	Start    string `arg:"" help:"Start slot (HH:MM)."`
	Plate    string `required:"" help:"Licence plate."`
	Date     string `help:"Date (YYYY-MM-DD), default today." default:""`
	Duration int    `help:"Duration in minutes." default:"60"`
	Email    string `help:"Contact email." default:""`
}

func (c *BookCmd) Run(appCtx *Context) error {
	date := c.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	occ, err := dayOccupancy(ctx, appCtx, c.Session, date)
	if err != nil {
		return err
	}

	p := schedule.NewPlanner(appCtx.Grid)
	p.SetOccupancy(occ)
	if !p.Select(c.Start) {
		return fmt.Errorf("slot %s is not available on %s", c.Start, date)
	}
	p.SetDuration(c.Duration)

	if p.Start() != c.Start || p.DurationMin() != c.Duration {
		fmt.Printf("adjusted to %s (%d min) to fit the schedule\n", p.Start(), p.DurationMin())
	}

	end, err := schedule.EndTime(p.Start(), p.DurationMin())
	if err != nil {
		return err
	}
	res, err := appCtx.API.CreateReservation(ctx, c.Session, c.Plate, date, p.Start(), end, c.Email)
	if err != nil {
		return err
	}
	fmt.Printf("booked %s %s-%s on session %d (id %s)\n",
		res.Date, res.StartTime, res.EndTime, res.SessionID, res.ID)
	return nil
}

// dayOccupancy pulls one session's reservations for a date and folds
// them into an occupancy set.
func dayOccupancy(ctx context.Context, appCtx *Context, sessionID uint64, date string) (schedule.OccupancySet, error) {
	grouped, err := appCtx.API.SessionsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	for _, g := range grouped {
		if g.SessionID == sessionID {
			return schedule.BuildOccupancy(g.Reservations), nil
		}
	}
	return nil, fmt.Errorf("session %d not found", sessionID)
}

func sortedOccupancy(occ schedule.OccupancySet) []string {
	out := make([]string, 0, occ.Len())
	for slot := range occ {
		out = append(out, slot)
	}
	sort.Strings(out)
	return out
}
