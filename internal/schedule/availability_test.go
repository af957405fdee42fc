package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iliyamo/ev-charge-hub/internal/model"
)

// fakeFetcher serves canned per-date responses and counts calls.
type fakeFetcher struct {
	mu        sync.Mutex
	byDate    map[string][]model.SessionReservations
	failOn    string
	calls     []string
	started   chan struct{} // when set, closed once the first fetch is in flight
	startOnce sync.Once
	release   chan struct{} // when set, fetches block until closed
}

func (f *fakeFetcher) SessionsByDate(ctx context.Context, dateISO string) ([]model.SessionReservations, error) {
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.calls = append(f.calls, dateISO)
	f.mu.Unlock()
	if dateISO == f.failOn {
		return nil, errors.New("backend unavailable")
	}
	return f.byDate[dateISO], nil
}

func stripFetcher() *fakeFetcher {
	return &fakeFetcher{
		byDate: map[string][]model.SessionReservations{
			"2026-03-10": {
				{SessionID: 1, Name: "Pad 1", Reservations: []model.Reservation{
					res("10:00", "11:30", model.StatusConfirmed),
				}},
				{SessionID: 2, Name: "Pad 2", Reservations: []model.Reservation{
					res("09:00", "21:00", model.StatusConfirmed),
				}},
			},
		},
	}
}

func TestRefresh_WindowOrderAndTiers(t *testing.T) {
	f := stripFetcher()
	agg := NewAggregator(f, NewGrid(9, 22))

	snap, err := agg.Refresh(context.Background(), 1, "2026-03-10")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(snap.Days) != WindowBefore+WindowAfter+1 {
		t.Fatalf("strip length = %d, want %d", len(snap.Days), WindowBefore+WindowAfter+1)
	}
	if snap.Days[0].Date != "2026-03-07" {
		t.Errorf("first strip day = %s, want 2026-03-07", snap.Days[0].Date)
	}
	if snap.Days[WindowBefore].Date != "2026-03-10" {
		t.Errorf("anchor not at window position: %s", snap.Days[WindowBefore].Date)
	}
	if snap.Days[len(snap.Days)-1].Date != "2026-03-20" {
		t.Errorf("last strip day = %s, want 2026-03-20", snap.Days[len(snap.Days)-1].Date)
	}

	// Session 1 occupies 3 of 26 admin slots on the anchor date:
	// round(100*23/26) = 88 → low congestion.
	anchor := snap.Days[WindowBefore]
	if anchor.FreePercent != 88 {
		t.Errorf("anchor free%% = %d, want 88", anchor.FreePercent)
	}
	if anchor.Tier != TierLow {
		t.Errorf("anchor tier = %s, want low", anchor.Tier)
	}
	if anchor.Label != "3/10" {
		t.Errorf("anchor label = %q, want 3/10", anchor.Label)
	}

	// Empty dates are fully free.
	if d := snap.Days[0]; d.FreePercent != 100 || d.Tier != TierLow {
		t.Errorf("empty day = %d%%/%s, want 100%%/low", d.FreePercent, d.Tier)
	}

	// Anchor occupancy is retained for slot validation.
	for _, s := range []string{"10:00", "10:30", "11:00"} {
		if !snap.AnchorOccupancy.Has(s) {
			t.Errorf("anchor occupancy missing %s", s)
		}
	}
}

func TestRefresh_TargetsRequestedSession(t *testing.T) {
	f := stripFetcher()
	agg := NewAggregator(f, NewGrid(9, 22))

	snap, err := agg.Refresh(context.Background(), 2, "2026-03-10")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	// Session 2 is booked 09:00–21:00: 24 of 26 slots occupied,
	// round(100*2/26) = 8 → high congestion.
	anchor := snap.Days[WindowBefore]
	if anchor.FreePercent != 8 {
		t.Errorf("free%% = %d, want 8", anchor.FreePercent)
	}
	if anchor.Tier != TierHigh {
		t.Errorf("tier = %s, want high", anchor.Tier)
	}
}

func TestRefresh_AllOrNothing(t *testing.T) {
	f := stripFetcher()
	f.failOn = "2026-03-12"
	agg := NewAggregator(f, NewGrid(9, 22))

	if _, err := agg.Refresh(context.Background(), 1, "2026-03-10"); err == nil {
		t.Fatal("expected refresh to fail when one date fetch fails")
	}
}

func TestRefresh_StaleGenerationDiscarded(t *testing.T) {
	f := stripFetcher()
	f.started = make(chan struct{})
	f.release = make(chan struct{})
	agg := NewAggregator(f, NewGrid(9, 22))

	done := make(chan error, 1)
	go func() {
		_, err := agg.Refresh(context.Background(), 1, "2026-03-10")
		done <- err
	}()

	// Wait until the refresh has claimed its generation and put a
	// fetch in flight, then supersede it before the fetches complete.
	<-f.started
	agg.gen.Add(1)
	close(f.release)

	if err := <-done; !errors.Is(err, ErrStaleRefresh) {
		t.Fatalf("superseded refresh returned %v, want ErrStaleRefresh", err)
	}
}

func TestRefresh_BadAnchorDate(t *testing.T) {
	agg := NewAggregator(stripFetcher(), NewGrid(9, 22))
	if _, err := agg.Refresh(context.Background(), 1, "10-03-2026"); err == nil {
		t.Fatal("expected error for malformed anchor date")
	}
}

func TestFreePercentAndClassify(t *testing.T) {
	cases := []struct {
		gridLen, occupied int
		wantPct           int
		wantTier          string
	}{
		{26, 0, 100, TierLow},
		{26, 3, 88, TierLow},
		{26, 14, 46, TierMedium},
		{26, 26, 0, TierHigh},
		{26, 30, 0, TierHigh}, // oversubscribed clamps to 0
		{0, 0, 0, TierHigh},   // empty grid
		{48, 16, 67, TierLow},
		{48, 17, 65, TierMedium},
	}
	for _, c := range cases {
		pct := FreePercent(c.gridLen, c.occupied)
		if pct != c.wantPct {
			t.Errorf("FreePercent(%d,%d) = %d, want %d", c.gridLen, c.occupied, pct, c.wantPct)
		}
		if tier := Classify(pct); tier != c.wantTier {
			t.Errorf("Classify(%d) = %s, want %s", pct, tier, c.wantTier)
		}
	}
}
