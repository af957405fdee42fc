package schedule

import (
	"sort"
)

// Window is a resolved draft selection: a start time plus duration.
type Window struct {
	Start       string
	DurationMin int
}

// End returns the exclusive "HH:MM" end of the window.
func (w Window) End() string {
	start, err := ToMinutes(w.Start)
	if err != nil {
		return w.Start
	}
	return FromMinutes(start + w.DurationMin)
}

// Planner holds the in-progress booking selection and keeps it
// consistent as the grid, occupancy or duration change underneath
// it. It runs in two modes: single (one start + duration) and batch
// (a sorted set of independent one-hour starts). The planner is
// owned by the single goroutine driving the booking flow and
// performs no locking of its own.
type Planner struct {
	grid        Grid
	occ         OccupancySet
	batch       bool
	start       string
	durationMin int
	starts      []string
}

// NewPlanner creates a single-mode planner positioned on the grid's
// first slot with a one-hour duration.
func NewPlanner(grid Grid) *Planner {
	p := &Planner{
		grid:        grid,
		occ:         make(OccupancySet),
		durationMin: BatchSlotMinutes,
	}
	if slots := grid.Slots(); len(slots) > 0 {
		p.start = slots[0]
	}
	return p
}

// BatchMode reports whether the planner is in batch mode.
func (p *Planner) BatchMode() bool { return p.batch }

// Start returns the single-mode start time.
func (p *Planner) Start() string { return p.start }

// DurationMin returns the single-mode duration.
func (p *Planner) DurationMin() int { return p.durationMin }

// Selections returns a copy of the batch-mode start times, sorted by
// start.
func (p *Planner) Selections() []string {
	out := make([]string, len(p.starts))
	copy(out, p.starts)
	return out
}

// Windows resolves the current draft into concrete booking windows:
// one per batch member, or the single start+duration pair.
func (p *Planner) Windows() []Window {
	if p.batch {
		out := make([]Window, 0, len(p.starts))
		for _, s := range p.starts {
			out = append(out, Window{Start: s, DurationMin: BatchSlotMinutes})
		}
		return out
	}
	if p.start == "" {
		return nil
	}
	return []Window{{Start: p.start, DurationMin: p.durationMin}}
}

// Blocked reports whether the given slot may currently not be
// selected, applying the full conflict rule set for the active mode.
func (p *Planner) Blocked(slot string) bool {
	if p.batch {
		return IsBlocked(slot, BatchSlotMinutes, p.occ, p.grid.DayEndMinutes(), p.othersFor(slot))
	}
	return IsBlocked(slot, p.durationMin, p.occ, p.grid.DayEndMinutes(), nil)
}

// Select sets the single-mode start time. Blocked slots are refused
// so the draft can never be moved onto a conflict; in batch mode use
// Toggle instead.
func (p *Planner) Select(slot string) bool {
	if p.batch || !p.grid.Contains(slot) || p.Blocked(slot) {
		return false
	}
	p.start = slot
	return true
}

// Toggle adds the slot to the batch selection if absent, or removes
// it if present. Additions follow set semantics and are refused when
// the slot is blocked; removal always succeeds.
func (p *Planner) Toggle(slot string) bool {
	if !p.batch {
		return false
	}
	for i, s := range p.starts {
		if s == slot {
			p.starts = append(p.starts[:i], p.starts[i+1:]...)
			return true
		}
	}
	if !p.grid.Contains(slot) || p.Blocked(slot) {
		return false
	}
	p.starts = append(p.starts, slot)
	sort.Strings(p.starts)
	return true
}

// SetBatchMode switches modes. Entering batch mode pins the duration
// to the fixed one-hour block and seeds the selection with the
// current single start when the set is empty; leaving batch mode
// clears the selection. No other state crosses the transition.
func (p *Planner) SetBatchMode(on bool) {
	if on == p.batch {
		return
	}
	p.batch = on
	if on {
		p.durationMin = BatchSlotMinutes
		if len(p.starts) == 0 && p.start != "" {
			p.starts = []string{p.start}
		}
		p.repairBatch()
		return
	}
	p.starts = nil
}

// SetDuration changes the single-mode duration and repairs the start
// if it no longer fits before the end of the day: first the grid is
// searched in reverse for the latest unoccupied start that fits;
// when every fitting slot is occupied the earliest slot that merely
// fits is used so the draft always holds a consistent selection.
func (p *Planner) SetDuration(durationMin int) {
	if p.batch || durationMin <= 0 {
		return
	}
	p.durationMin = durationMin
	startMin, err := ToMinutes(p.start)
	if err == nil && startMin+durationMin <= p.grid.DayEndMinutes() {
		return
	}
	slots := p.grid.Slots()
	for i := len(slots) - 1; i >= 0; i-- {
		m, err := ToMinutes(slots[i])
		if err != nil {
			continue
		}
		if m+durationMin <= p.grid.DayEndMinutes() && !p.occ.Has(slots[i]) {
			p.start = slots[i]
			return
		}
	}
	for _, s := range slots {
		m, err := ToMinutes(s)
		if err != nil {
			continue
		}
		if m+durationMin <= p.grid.DayEndMinutes() {
			p.start = s
			return
		}
	}
}

// SetOccupancy installs a freshly derived occupancy set (the
// session, date or underlying reservations changed) and repairs the
// draft against it. Batch members that no longer validate are
// silently dropped; a single-mode start that left the grid resets to
// the grid's first slot.
func (p *Planner) SetOccupancy(occ OccupancySet) {
	if occ == nil {
		occ = make(OccupancySet)
	}
	p.occ = occ
	if p.batch {
		p.repairBatch()
		return
	}
	if !p.grid.Contains(p.start) {
		if slots := p.grid.Slots(); len(slots) > 0 {
			p.start = slots[0]
		}
	}
}

// repairBatch re-validates every member against the current
// occupancy and day bounds, dropping the ones that no longer fit.
// Member-vs-member overlap is not rechecked here: the set was
// overlap-free when built and removal cannot introduce overlap.
func (p *Planner) repairBatch() {
	kept := p.starts[:0]
	for _, s := range p.starts {
		if !IsBlocked(s, BatchSlotMinutes, p.occ, p.grid.DayEndMinutes(), nil) {
			kept = append(kept, s)
		}
	}
	p.starts = kept
}

// othersFor returns the batch members other than the given slot, for
// the member-overlap conflict rule.
func (p *Planner) othersFor(slot string) []string {
	out := make([]string, 0, len(p.starts))
	for _, s := range p.starts {
		if s != slot {
			out = append(out, s)
		}
	}
	return out
}
