package schedule

import (
	"reflect"
	"testing"

	"github.com/iliyamo/ev-charge-hub/internal/model"
)

func TestPlanner_SingleSelect(t *testing.T) {
	p := NewPlanner(NewGrid(9, 22))
	if p.Start() != "09:00" {
		t.Fatalf("initial start = %s, want 09:00", p.Start())
	}
	if !p.Select("14:00") {
		t.Fatal("selecting a free slot must succeed")
	}
	if p.Select("08:00") {
		t.Error("selecting a slot outside the grid must fail")
	}

	p.SetOccupancy(BuildOccupancy([]model.Reservation{res("14:00", "15:00", model.StatusConfirmed)}))
	if p.Select("14:00") {
		t.Error("selecting an occupied slot must fail")
	}
}

func TestPlanner_DurationRepairReverseSearch(t *testing.T) {
	p := NewPlanner(NewGrid(9, 22))
	p.SetDuration(30)
	if !p.Select("21:30") {
		t.Fatal("21:30 fits a 30 minute window")
	}

	// 21:30 + 60 runs past 22:00; the latest fitting free slot is
	// 21:00.
	p.SetDuration(60)
	if p.Start() != "21:00" {
		t.Fatalf("repaired start = %s, want 21:00", p.Start())
	}

	// With 21:00 occupied the search keeps walking backwards.
	p.SetDuration(30)
	p.Select("21:30")
	p.SetOccupancy(BuildOccupancy([]model.Reservation{res("21:00", "21:30", model.StatusConfirmed)}))
	p.SetDuration(60)
	if p.Start() != "20:30" {
		t.Fatalf("repaired start = %s, want 20:30", p.Start())
	}
}

func TestPlanner_DurationRepairFallback(t *testing.T) {
	p := NewPlanner(NewGrid(9, 22))
	p.SetDuration(30)
	p.Select("12:00")
	// Occupy every slot so the reverse search finds nothing free;
	// the planner falls back to the earliest slot that merely fits,
	// even though it is occupied, to keep the draft consistent.
	p.SetOccupancy(BuildOccupancy([]model.Reservation{res("09:00", "22:00", model.StatusConfirmed)}))
	p.SetDuration(700) // only starts up to 10:20 fit before 22:00
	if p.Start() != "09:00" {
		t.Fatalf("fallback start = %s, want 09:00", p.Start())
	}
}

func TestPlanner_BatchToggleAndSeed(t *testing.T) {
	p := NewPlanner(NewGrid(0, 24))
	p.Select("09:00")
	p.SetBatchMode(true)

	if got := p.Selections(); !reflect.DeepEqual(got, []string{"09:00"}) {
		t.Fatalf("batch seed = %v, want [09:00]", got)
	}

	if !p.Toggle("11:00") {
		t.Fatal("toggling a free slot must add it")
	}
	if p.Toggle("11:30") {
		t.Error("11:30 overlaps the 11:00 member and must be refused")
	}
	if !p.Toggle("11:00") {
		t.Fatal("toggling a member must remove it")
	}
	if got := p.Selections(); !reflect.DeepEqual(got, []string{"09:00"}) {
		t.Fatalf("selections after remove = %v, want [09:00]", got)
	}

	// Members stay sorted by start time.
	p.Toggle("13:00")
	p.Toggle("10:30")
	if got := p.Selections(); !reflect.DeepEqual(got, []string{"09:00", "10:30", "13:00"}) {
		t.Fatalf("selections = %v, want sorted", got)
	}

	// Leaving batch mode clears the selection.
	p.SetBatchMode(false)
	if len(p.Selections()) != 0 {
		t.Error("leaving batch mode must clear selections")
	}
}

func TestPlanner_BatchSeedSkippedWhenNonEmpty(t *testing.T) {
	p := NewPlanner(NewGrid(0, 24))
	p.SetBatchMode(true)
	p.Toggle("15:00")
	p.SetBatchMode(false)
	p.Select("09:00")
	p.SetBatchMode(true)
	// The previous selection was cleared on exit, so the seed rule
	// applies again.
	if got := p.Selections(); !reflect.DeepEqual(got, []string{"09:00"}) {
		t.Fatalf("selections = %v, want [09:00]", got)
	}
}

func TestPlanner_BatchRepairOnOccupancyChange(t *testing.T) {
	p := NewPlanner(NewGrid(0, 24))
	p.SetBatchMode(true)
	// Drop the seeded member so only the toggled slots remain.
	for _, seeded := range p.Selections() {
		p.Toggle(seeded)
	}
	p.Toggle("09:00")
	p.Toggle("10:00")

	// A reservation occupying 09:30–10:30 appears: the 09:00 member
	// (covers 09:00–10:00) now overlaps 09:30 and is dropped; the
	// 10:00 member (covers 10:00–11:00) overlaps 10:00 and is
	// dropped too.
	p.SetOccupancy(BuildOccupancy([]model.Reservation{res("09:30", "10:30", model.StatusConfirmed)}))
	if got := p.Selections(); len(got) != 0 {
		t.Fatalf("selections after repair = %v, want empty", got)
	}

	// Occupancy at 09:30 only: 09:00 is blocked and removed, 10:00
	// is unaffected and stays.
	p.SetOccupancy(make(OccupancySet))
	p.Toggle("09:00")
	p.Toggle("10:00")
	p.SetOccupancy(BuildOccupancy([]model.Reservation{res("09:30", "10:00", model.StatusConfirmed)}))
	if got := p.Selections(); !reflect.DeepEqual(got, []string{"10:00"}) {
		t.Fatalf("selections after repair = %v, want [10:00]", got)
	}
}

func TestPlanner_BatchMemberPastDayEndDropped(t *testing.T) {
	p := NewPlanner(NewGrid(9, 22))
	p.SetBatchMode(true)
	// Drop the seeded member so only the toggled slots remain.
	for _, seeded := range p.Selections() {
		p.Toggle(seeded)
	}
	p.Toggle("20:00")
	if p.Toggle("21:30") {
		t.Error("21:30+60 runs past 22:00 and must be refused")
	}
	if got := p.Selections(); !reflect.DeepEqual(got, []string{"20:00"}) {
		t.Fatalf("selections = %v, want [20:00]", got)
	}
}

func TestPlanner_Windows(t *testing.T) {
	p := NewPlanner(NewGrid(0, 24))
	p.Select("09:00")
	p.SetDuration(90)
	w := p.Windows()
	if len(w) != 1 || w[0].Start != "09:00" || w[0].End() != "10:30" {
		t.Fatalf("single windows = %+v", w)
	}

	p.SetBatchMode(true)
	p.Toggle("12:00")
	w = p.Windows()
	if len(w) != 2 {
		t.Fatalf("batch windows = %+v", w)
	}
	for _, win := range w {
		if win.DurationMin != BatchSlotMinutes {
			t.Errorf("batch window duration = %d, want %d", win.DurationMin, BatchSlotMinutes)
		}
	}
}
