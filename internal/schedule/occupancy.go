package schedule

import (
	"github.com/iliyamo/ev-charge-hub/internal/model"
)

// OccupancySet is the set of 30-minute slot starts covered by at
// least one non-cancelled reservation for a single session+date.
// It is always derived, never stored, and rebuilding it from the
// same reservations yields an identical set regardless of order.
type OccupancySet map[string]struct{}

// Has reports whether the given "HH:MM" slot start is occupied.
func (o OccupancySet) Has(slot string) bool {
	_, ok := o[slot]
	return ok
}

// Add marks a slot start as occupied.
func (o OccupancySet) Add(slot string) { o[slot] = struct{}{} }

// Len returns the number of occupied slots.
func (o OccupancySet) Len() int { return len(o) }

// BuildOccupancy expands every non-cancelled reservation's
// [StartTime, EndTime) window into its constituent slot starts.
// Windows that are not 30-minute aligned still occupy every slot
// start they touch: the walk starts at the aligned floor of the
// window start, so a partial overlap at either edge blocks the whole
// slot. Reservations with malformed times contribute nothing rather
// than poisoning the set.
func BuildOccupancy(reservations []model.Reservation) OccupancySet {
	occ := make(OccupancySet)
	for _, r := range reservations {
		if r.Status == model.StatusCancelled {
			continue
		}
		start, err := ToMinutes(r.StartTime)
		if err != nil {
			continue
		}
		end, err := ToMinutes(r.EndTime)
		if err != nil {
			continue
		}
		for cur := start - start%SlotMinutes; cur < end; cur += SlotMinutes {
			occ.Add(FromMinutes(cur))
		}
	}
	return occ
}
