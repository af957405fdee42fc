// Package cli implements the ev-charge-hub command line client. Each
// command is a kong struct with a Run method receiving the shared
// Context.
package cli

import (
	"github.com/iliyamo/ev-charge-hub/internal/client"
	"github.com/iliyamo/ev-charge-hub/internal/schedule"
)

// Context carries the API client and the grid the commands plan
// against. The CLI always plans on the full-day driver grid.
type Context struct {
	API  *client.API
	Grid schedule.Grid
}
