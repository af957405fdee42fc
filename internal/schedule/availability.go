package schedule

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iliyamo/ev-charge-hub/internal/model"
)

// Rolling window around the anchor date shown in the date-picker
// strip: three days back, ten days ahead, inclusive.
const (
	WindowBefore = 3
	WindowAfter  = 10
)

// Congestion tiers classify a day's free percentage for one session.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// ErrStaleRefresh is returned by Refresh when a newer refresh was
// started before this one finished. The result must be discarded;
// it is not an operational failure and is never shown to the user.
var ErrStaleRefresh = errors.New("schedule: refresh superseded")

// Fetcher retrieves every session's reservations for one calendar
// day. In the server it is backed by the reservation repository; in
// the CLI it is backed by the HTTP API.
type Fetcher interface {
	SessionsByDate(ctx context.Context, dateISO string) ([]model.SessionReservations, error)
}

// DayAvailability is one entry of the date-picker strip.
type DayAvailability struct {
	Date        string // ISO calendar day
	Label       string // short "M/D" label
	FreePercent int    // rounded free percentage, clamped to [0,100]
	Tier        string // TierLow, TierMedium or TierHigh
}

// Snapshot is the complete result of one availability refresh: the
// strip in window order plus the anchor date's occupancy set, which
// is retained for slot-level validation of the draft.
type Snapshot struct {
	SessionID       uint64
	AnchorDate      string
	Days            []DayAvailability
	AnchorOccupancy OccupancySet
}

// Aggregator computes availability strips for one grid
// configuration. Fetches for the dates of the window fan out
// concurrently; results are reassembled in window order before
// publication. Each Refresh is tagged with a monotonically
// increasing generation so that a slow, superseded refresh can never
// overwrite fresher state.
type Aggregator struct {
	fetcher Fetcher
	grid    Grid
	gen     atomic.Uint64
}

// NewAggregator binds an Aggregator to its fetch collaborator and
// grid configuration.
func NewAggregator(f Fetcher, grid Grid) *Aggregator {
	return &Aggregator{fetcher: f, grid: grid}
}

// Refresh fetches the rolling window around anchorDate and derives
// the availability strip for the given session. The refresh is
// all-or-nothing: if any date's fetch fails the whole call returns
// that one error and the caller keeps whatever it was displaying.
// If another Refresh was issued concurrently, the older call returns
// ErrStaleRefresh.
func (a *Aggregator) Refresh(ctx context.Context, sessionID uint64, anchorDate string) (*Snapshot, error) {
	anchor, err := time.Parse("2006-01-02", anchorDate)
	if err != nil {
		return nil, fmt.Errorf("schedule: bad anchor date %q: %w", anchorDate, err)
	}
	gen := a.gen.Add(1)

	dates := make([]string, 0, WindowBefore+WindowAfter+1)
	for off := -WindowBefore; off <= WindowAfter; off++ {
		dates = append(dates, anchor.AddDate(0, 0, off).Format("2006-01-02"))
	}

	type dayResult struct {
		sessions []model.SessionReservations
		err      error
	}
	results := make([]dayResult, len(dates))

	var wg sync.WaitGroup
	for i, d := range dates {
		wg.Add(1)
		go func(i int, d string) {
			defer wg.Done()
			sessions, err := a.fetcher.SessionsByDate(ctx, d)
			results[i] = dayResult{sessions: sessions, err: err}
		}(i, d)
	}
	wg.Wait()

	// Another refresh started while this one was in flight; whatever
	// we gathered belongs to an older view of the world.
	if a.gen.Load() != gen {
		return nil, ErrStaleRefresh
	}

	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
	}

	snap := &Snapshot{
		SessionID:       sessionID,
		AnchorDate:      anchorDate,
		AnchorOccupancy: make(OccupancySet),
	}
	for i, d := range dates {
		var target []model.Reservation
		for _, s := range results[i].sessions {
			if s.SessionID == sessionID {
				target = s.Reservations
				break
			}
		}
		occ := BuildOccupancy(target)
		if d == anchorDate {
			snap.AnchorOccupancy = occ
		}
		free := FreePercent(a.grid.Len(), occ.Len())
		day, _ := time.Parse("2006-01-02", d)
		snap.Days = append(snap.Days, DayAvailability{
			Date:        d,
			Label:       fmt.Sprintf("%d/%d", int(day.Month()), day.Day()),
			FreePercent: free,
			Tier:        Classify(free),
		})
	}
	return snap, nil
}

// FreePercent computes the rounded share of free slots, clamped to
// [0,100]. An empty grid counts as fully congested.
func FreePercent(gridLen, occupied int) int {
	if gridLen <= 0 {
		return 0
	}
	free := gridLen - occupied
	if free < 0 {
		free = 0
	}
	pct := int(math.Round(100 * float64(free) / float64(gridLen)))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Classify buckets a free percentage into a congestion tier:
// above 66 is low congestion, above 33 medium, anything else high.
func Classify(freePercent int) string {
	switch {
	case freePercent > 66:
		return TierLow
	case freePercent > 33:
		return TierMedium
	default:
		return TierHigh
	}
}
