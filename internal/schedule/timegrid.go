// Package schedule implements the slot-availability and scheduling
// engine: the 30-minute time grid, occupancy derivation, the rolling
// multi-day availability aggregation, slot conflict validation, the
// in-progress booking draft, and real-time status derivation.  The
// package is pure logic; fetching and persistence are collaborators
// injected through small interfaces.
package schedule

import (
	"fmt"
)

// SlotMinutes is the grid granularity. Every reservation window is
// expressed in multiples of this, and every slot is identified by
// its zero-padded "HH:MM" start.
const SlotMinutes = 30

// DayMinutes is the exclusive upper bound for a minute offset within
// one calendar day. "24:00" (== DayMinutes) is allowed only as an
// exclusive window end.
const DayMinutes = 24 * 60

// ToMinutes parses a zero-padded "HH:MM" string into its minute
// offset. "24:00" is accepted and returns DayMinutes so that
// exclusive day-end bounds round-trip. Anything else malformed or
// out of range returns an error; the engine rejects rather than
// best-effort parses so that bad input never silently lands on the
// wrong slot.
func ToMinutes(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, fmt.Errorf("schedule: malformed time %q", hhmm)
	}
	h, err := twoDigits(hhmm[0], hhmm[1])
	if err != nil {
		return 0, fmt.Errorf("schedule: malformed time %q", hhmm)
	}
	m, err := twoDigits(hhmm[3], hhmm[4])
	if err != nil {
		return 0, fmt.Errorf("schedule: malformed time %q", hhmm)
	}
	total := h*60 + m
	if total > DayMinutes || m > 59 {
		return 0, fmt.Errorf("schedule: time %q out of range", hhmm)
	}
	return total, nil
}

// FromMinutes renders a minute offset as a zero-padded "HH:MM"
// string. The valid domain is [0, DayMinutes]; out-of-range input is
// clamped to the nearest bound rather than wrapped, so the function
// never panics and never produces a value on a different day.
func FromMinutes(min int) string {
	if min < 0 {
		min = 0
	}
	if min > DayMinutes {
		min = DayMinutes
	}
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// EndTime returns the "HH:MM" end of a window that starts at `start`
// and lasts durationMin minutes.
func EndTime(start string, durationMin int) (string, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return "", err
	}
	return FromMinutes(s + durationMin), nil
}

// Grid is the fixed slot grid for one portal's business day.  The
// admin portal runs 09:00–22:00 while the user portal exposes the
// whole day; both enumerate :00 and :30 marks.  A Grid is immutable
// once built.
type Grid struct {
	StartHour int
	EndHour   int
	slots     []string
}

// NewGrid enumerates the slot starts from StartHour up to but
// excluding EndHour, i.e. the last slot starts at EndHour-1:30.
// Hours outside [0,24] or an empty window yield an empty grid.
func NewGrid(startHour, endHour int) Grid {
	g := Grid{StartHour: startHour, EndHour: endHour}
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return g
	}
	for h := startHour; h <= endHour-1; h++ {
		g.slots = append(g.slots, fmt.Sprintf("%02d:00", h))
		g.slots = append(g.slots, fmt.Sprintf("%02d:30", h))
	}
	return g
}

// Slots returns a copy of the ordered slot starts.
func (g Grid) Slots() []string {
	out := make([]string, len(g.slots))
	copy(out, g.slots)
	return out
}

// Len reports the number of slots in the grid.
func (g Grid) Len() int { return len(g.slots) }

// DayEndMinutes is the exclusive end of the grid's day window in
// minutes; no reservation validated against this grid may run past
// it.
func (g Grid) DayEndMinutes() int { return g.EndHour * 60 }

// DayStartMinutes is the inclusive start of the grid's day window.
func (g Grid) DayStartMinutes() int { return g.StartHour * 60 }

// Contains reports whether the given "HH:MM" value is one of the
// grid's slot starts.
func (g Grid) Contains(slot string) bool {
	for _, s := range g.slots {
		if s == slot {
			return true
		}
	}
	return false
}

func twoDigits(a, b byte) (int, error) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, fmt.Errorf("not digits")
	}
	return int(a-'0')*10 + int(b-'0'), nil
}
