package schedule

import (
	"testing"
)

func TestToMinutes_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"00:30", 30},
		{"09:00", 540},
		{"13:45", 825},
		{"23:30", 1410},
		{"24:00", 1440},
	}
	for _, c := range cases {
		got, err := ToMinutes(c.in)
		if err != nil {
			t.Fatalf("ToMinutes(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ToMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestToMinutes_Malformed(t *testing.T) {
	for _, in := range []string{"", "9:00", "0900", "09-00", "ab:cd", "25:00", "24:30", "12:60", "12:345"} {
		if _, err := ToMinutes(in); err == nil {
			t.Errorf("ToMinutes(%q) accepted malformed input", in)
		}
	}
}

func TestMinutesRoundTrip(t *testing.T) {
	for m := 0; m < DayMinutes; m++ {
		got, err := ToMinutes(FromMinutes(m))
		if err != nil {
			t.Fatalf("round trip failed at %d: %v", m, err)
		}
		if got != m {
			t.Fatalf("ToMinutes(FromMinutes(%d)) = %d", m, got)
		}
	}
}

func TestFromMinutes_Clamps(t *testing.T) {
	if got := FromMinutes(-10); got != "00:00" {
		t.Errorf("FromMinutes(-10) = %q, want 00:00", got)
	}
	if got := FromMinutes(DayMinutes + 90); got != "24:00" {
		t.Errorf("FromMinutes(beyond day) = %q, want 24:00", got)
	}
}

func TestGridSlots(t *testing.T) {
	admin := NewGrid(9, 22)
	if admin.Len() != 26 {
		t.Fatalf("admin grid length = %d, want 26", admin.Len())
	}
	slots := admin.Slots()
	if slots[0] != "09:00" {
		t.Errorf("first admin slot = %q, want 09:00", slots[0])
	}
	if slots[len(slots)-1] != "21:30" {
		t.Errorf("last admin slot = %q, want 21:30", slots[len(slots)-1])
	}
	if admin.DayEndMinutes() != 1320 {
		t.Errorf("admin day end = %d, want 1320", admin.DayEndMinutes())
	}

	user := NewGrid(0, 24)
	if user.Len() != 48 {
		t.Fatalf("user grid length = %d, want 48", user.Len())
	}
	if got := user.Slots()[47]; got != "23:30" {
		t.Errorf("last user slot = %q, want 23:30", got)
	}

	// The grid round-trips through the string form.
	for _, s := range user.Slots() {
		m, err := ToMinutes(s)
		if err != nil {
			t.Fatalf("grid produced unparseable slot %q", s)
		}
		if FromMinutes(m) != s {
			t.Errorf("FromMinutes(ToMinutes(%q)) = %q", s, FromMinutes(m))
		}
	}
}

func TestGridContains(t *testing.T) {
	g := NewGrid(9, 22)
	if !g.Contains("09:30") {
		t.Error("expected grid to contain 09:30")
	}
	if g.Contains("08:30") {
		t.Error("08:30 is before the grid window")
	}
	if g.Contains("21:45") {
		t.Error("21:45 is not grid-aligned")
	}
}

func TestEndTime(t *testing.T) {
	got, err := EndTime("21:30", 60)
	if err != nil {
		t.Fatalf("EndTime: %v", err)
	}
	if got != "22:30" {
		t.Errorf("EndTime(21:30, 60) = %q, want 22:30", got)
	}
	if _, err := EndTime("21-30", 60); err == nil {
		t.Error("EndTime accepted malformed start")
	}
}
