package cli

import (
	"context"
	"fmt"
	"time"
)

// MyCmd lists the caller's reservations with their live status.
type MyCmd struct {
	Plate string `help:"Filter by licence plate." default:""`
}

func (c *MyCmd) Run(appCtx *Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reservations, err := appCtx.API.My(ctx, c.Plate)
	if err != nil {
		return err
	}
	if len(reservations) == 0 {
		fmt.Println("No reservations.")
		return nil
	}
	for _, r := range reservations {
		fmt.Printf("%s  %s %s-%s  session %d  plate %s  %s (%s)\n",
			r.ID, r.Date, r.StartTime, r.EndTime, r.SessionID, r.Plate, r.Label, r.Phase)
	}
	return nil
}

// CancelCmd cancels one reservation by id.
type CancelCmd struct {
	ID    string `arg:"" help:"Reservation id."`
	Plate string `help:"Licence plate, required when the token has no email." default:""`
}

func (c *CancelCmd) Run(appCtx *Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := appCtx.API.Cancel(ctx, c.ID, c.Plate); err != nil {
		return err
	}
	fmt.Printf("cancelled %s\n", c.ID)
	return nil
}

// SessionsCmd lists the charging pads.
type SessionsCmd struct{}

func (c *SessionsCmd) Run(appCtx *Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sessions, err := appCtx.API.Sessions(ctx)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		fmt.Printf("%d  %s\n", s.ID, s.Name)
	}
	return nil
}
