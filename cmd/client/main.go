package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/iliyamo/ev-charge-hub/internal/cli"
	"github.com/iliyamo/ev-charge-hub/internal/client"
	"github.com/iliyamo/ev-charge-hub/internal/schedule"
)

var CLI struct {
	Version kong.VersionFlag
	Server  string `help:"API base URL." env:"EVHUB_SERVER" default:"http://localhost:8080"`
	Token   string `help:"Access token." env:"EVHUB_TOKEN" default:""`
	Email   string `help:"Login email (alternative to --token)." env:"EVHUB_EMAIL" default:""`
	Pass    string `help:"Login password." env:"EVHUB_PASSWORD" default:""`

	Sessions     cli.SessionsCmd     `cmd:"" help:"List charging pads."`
	Availability cli.AvailabilityCmd `cmd:"" help:"Show the availability strip for a pad."`
	Book         cli.BookCmd         `cmd:"" help:"Book a single charging window."`
	Batch        cli.BatchCmd        `cmd:"" help:"Book several one-hour blocks."`
	My           cli.MyCmd           `cmd:"" help:"List your reservations."`
	Cancel       cli.CancelCmd       `cmd:"" help:"Cancel a reservation."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("evhub"),
		kong.Description("EV charging pad reservation client"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	api := client.New(CLI.Server, CLI.Token)
	if api.Token == "" && CLI.Email != "" {
		loginCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := api.Login(loginCtx, CLI.Email, CLI.Pass); err != nil {
			cancel()
			fmt.Fprintf(os.Stderr, "Error: login failed: %v\n", err)
			os.Exit(1)
		}
		cancel()
	}

	appCtx := &cli.Context{
		API:  api,
		Grid: schedule.NewGrid(0, 24),
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
