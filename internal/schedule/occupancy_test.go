package schedule

import (
	"testing"

	"github.com/iliyamo/ev-charge-hub/internal/model"
)

func res(start, end, status string) model.Reservation {
	return model.Reservation{
		ID:        "r-" + start,
		SessionID: 1,
		Date:      "2026-03-10",
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func TestBuildOccupancy_ExpandsWindows(t *testing.T) {
	occ := BuildOccupancy([]model.Reservation{res("10:00", "11:30", model.StatusConfirmed)})
	want := []string{"10:00", "10:30", "11:00"}
	if occ.Len() != len(want) {
		t.Fatalf("occupancy size = %d, want %d", occ.Len(), len(want))
	}
	for _, s := range want {
		if !occ.Has(s) {
			t.Errorf("expected %s to be occupied", s)
		}
	}
	if occ.Has("11:30") {
		t.Error("exclusive end 11:30 must not be occupied")
	}
}

func TestBuildOccupancy_SkipsCancelled(t *testing.T) {
	occ := BuildOccupancy([]model.Reservation{
		res("09:00", "10:00", model.StatusCancelled),
		res("12:00", "12:30", model.StatusConfirmed),
	})
	if occ.Has("09:00") || occ.Has("09:30") {
		t.Error("cancelled reservation must not occupy slots")
	}
	if !occ.Has("12:00") {
		t.Error("expected 12:00 occupied")
	}
}

func TestBuildOccupancy_OrderIndependent(t *testing.T) {
	a := []model.Reservation{
		res("09:00", "10:00", model.StatusConfirmed),
		res("14:30", "16:00", model.StatusInProgress),
		res("09:30", "10:30", model.StatusConfirmed),
	}
	b := []model.Reservation{a[2], a[0], a[1]}

	occA := BuildOccupancy(a)
	occB := BuildOccupancy(b)
	if occA.Len() != occB.Len() {
		t.Fatalf("sizes differ: %d vs %d", occA.Len(), occB.Len())
	}
	for s := range occA {
		if !occB.Has(s) {
			t.Errorf("sets differ on %s", s)
		}
	}

	// Idempotence: rebuilding yields the same set.
	again := BuildOccupancy(a)
	if again.Len() != occA.Len() {
		t.Errorf("rebuild changed size: %d vs %d", again.Len(), occA.Len())
	}
}

func TestBuildOccupancy_UnalignedWindowBlocksWholeSlot(t *testing.T) {
	occ := BuildOccupancy([]model.Reservation{res("10:15", "11:15", model.StatusConfirmed)})
	want := []string{"10:00", "10:30", "11:00"}
	for _, s := range want {
		if !occ.Has(s) {
			t.Errorf("partially covered slot %s must be occupied", s)
		}
	}
	if occ.Len() != len(want) {
		t.Errorf("occupancy size = %d, want %d (only aligned slot starts)", occ.Len(), len(want))
	}
	if IsBlocked("11:00", SlotMinutes, occ, DayMinutes, nil) != true {
		t.Error("slot 11:00 must be blocked by the 10:15-11:15 window")
	}
	if occ.Has("11:30") {
		t.Error("slot 11:30 past the window end must not be occupied")
	}
}

func TestBuildOccupancy_StepProperty(t *testing.T) {
	r := res("08:00", "11:00", model.StatusConfirmed)
	occ := BuildOccupancy([]model.Reservation{r})
	start, _ := ToMinutes(r.StartTime)
	end, _ := ToMinutes(r.EndTime)
	for cur := start; cur < end; cur += SlotMinutes {
		if !occ.Has(FromMinutes(cur)) {
			t.Errorf("step %s missing from occupancy", FromMinutes(cur))
		}
	}
}
