package schedule

// BatchSlotMinutes is the fixed block length of every batch-mode
// selection: each chosen start time becomes an independent one-hour
// reservation.
const BatchSlotMinutes = 60

// IsBlocked decides whether a candidate window may be selected.
// The rules are evaluated in order and any hit blocks the slot:
//
//  1. the window runs past dayEndMinutes,
//  2. any 30-minute step of the window is already occupied,
//  3. the window overlaps another currently selected batch member
//     (each member implicitly BatchSlotMinutes long).
//
// otherSelections is nil/empty outside batch mode. A candidate with
// a malformed start is always blocked.
func IsBlocked(candidateStart string, durationMin int, occ OccupancySet, dayEndMinutes int, otherSelections []string) bool {
	start, err := ToMinutes(candidateStart)
	if err != nil {
		return true
	}
	end := start + durationMin
	if end > dayEndMinutes {
		return true
	}
	for cur := start; cur < end; cur += SlotMinutes {
		if occ.Has(FromMinutes(cur)) {
			return true
		}
	}
	for _, sel := range otherSelections {
		if sel == candidateStart {
			continue
		}
		selStart, err := ToMinutes(sel)
		if err != nil {
			continue
		}
		if overlaps(start, end, selStart, selStart+BatchSlotMinutes) {
			return true
		}
	}
	return false
}

// overlaps reports whether the half-open minute intervals [a,b) and
// [c,d) intersect.
func overlaps(a, b, c, d int) bool {
	return a < d && c < b
}
