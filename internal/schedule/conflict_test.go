package schedule

import (
	"testing"

	"github.com/iliyamo/ev-charge-hub/internal/model"
)

func TestIsBlocked_DayBound(t *testing.T) {
	// 21:30 + 60min runs past a 22:00 day end regardless of occupancy.
	if !IsBlocked("21:30", 60, make(OccupancySet), 1320, nil) {
		t.Error("window past day end must be blocked")
	}
	if IsBlocked("21:00", 60, make(OccupancySet), 1320, nil) {
		t.Error("21:00+60 fits exactly and must not be blocked")
	}
}

func TestIsBlocked_Occupancy(t *testing.T) {
	occ := BuildOccupancy([]model.Reservation{res("10:00", "11:30", model.StatusConfirmed)})

	cases := []struct {
		start    string
		duration int
		blocked  bool
	}{
		{"10:00", 90, true},  // identical window
		{"09:30", 60, true},  // trailing half overlaps
		{"11:00", 30, true},  // last covered slot
		{"11:30", 60, false}, // starts exactly at the exclusive end
		{"08:00", 120, false},
		{"09:30", 30, false}, // ends exactly at the occupied start
	}
	for _, c := range cases {
		if got := IsBlocked(c.start, c.duration, occ, DayMinutes, nil); got != c.blocked {
			t.Errorf("IsBlocked(%s, %d) = %v, want %v", c.start, c.duration, got, c.blocked)
		}
	}
}

func TestIsBlocked_BatchSelections(t *testing.T) {
	occ := make(OccupancySet)
	others := []string{"09:00", "12:00"}

	// 09:30 overlaps the 09:00–10:00 member.
	if !IsBlocked("09:30", BatchSlotMinutes, occ, DayMinutes, others) {
		t.Error("expected overlap with existing selection to block")
	}
	// 10:00 starts exactly when the 09:00 member ends.
	if IsBlocked("10:00", BatchSlotMinutes, occ, DayMinutes, others) {
		t.Error("adjacent window must not be blocked")
	}
	// A slot never conflicts with itself in the selection list.
	if IsBlocked("09:00", BatchSlotMinutes, occ, DayMinutes, others) {
		t.Error("candidate equal to a selection must not self-conflict")
	}
}

func TestIsBlocked_MalformedStart(t *testing.T) {
	if !IsBlocked("9:00", 60, make(OccupancySet), DayMinutes, nil) {
		t.Error("malformed candidate start must be blocked")
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		a, b, c, d int
		want       bool
	}{
		{0, 60, 60, 120, false}, // touching half-open intervals
		{0, 61, 60, 120, true},
		{30, 90, 0, 60, true},
		{0, 30, 90, 120, false},
		{0, 120, 30, 60, true}, // containment
	}
	for _, c := range cases {
		if got := overlaps(c.a, c.b, c.c, c.d); got != c.want {
			t.Errorf("overlaps(%d,%d,%d,%d) = %v, want %v", c.a, c.b, c.c, c.d, got, c.want)
		}
	}
}
