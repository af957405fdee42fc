package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/ev-charge-hub/internal/schedule"
)

// BatchCmd books several independent one-hour blocks in a single
// all-or-nothing request. The requested starts go through the draft
// planner's batch mode first, so blocks that collided with fresh
// bookings are dropped before submission rather than failing the
// whole batch server-side.
type BatchCmd struct {
	Session uint64   `arg:"" help:"Charging session id."`
	Starts  []string `arg:"" help:"Hour block starts (HH:MM)."`
	Plate   string   `required:"" help:"Licence plate."`
	Date    string   `help:"Date (YYYY-MM-DD), default today." default:""`
	Email   string   `help:"Contact email." default:""`
}

func (c *BatchCmd) Run(appCtx *Context) error {
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
	p.SetBatchMode(true)
	// The planner seeds itself from its default start slot; clear that
	// so only the requested blocks survive.
	for _, seeded := range p.Selections() {
		p.Toggle(seeded)
	}
	for _, s := range c.Starts {
		if !p.Toggle(s) {
			fmt.Printf("skipping %s: block unavailable\n", s)
		}
	}

	selections := p.Selections()
	if len(selections) == 0 {
		return fmt.Errorf("no requested blocks are available on %s", date)
	}
	if len(selections) < len(c.Starts) {
		fmt.Printf("booking remaining blocks: %s\n", strings.Join(selections, " "))
	}

	created, err := appCtx.API.CreateBatch(ctx, c.Session, c.Plate, date, selections, c.Email)
	if err != nil {
		return err
	}
	for _, r := range created {
		fmt.Printf("booked %s %s-%s (id %s)\n", r.Date, r.StartTime, r.EndTime, r.ID)
	}
	return nil
}
