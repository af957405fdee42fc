package model

import (
	"testing"
	"time"
)

func TestDerivedStatusFollowsClock(t *testing.T) {
	r := Reservation{
		Date:      "2026-03-10",
		StartTime: "10:00",
		EndTime:   "11:30",
		Status:    StatusConfirmed,
	}

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{"day before", time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC), StatusConfirmed},
		{"minute before start", time.Date(2026, 3, 10, 9, 59, 0, 0, time.UTC), StatusConfirmed},
		{"at start", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), StatusInProgress},
		{"minute before end", time.Date(2026, 3, 10, 11, 29, 0, 0, time.UTC), StatusInProgress},
		{"at end", time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC), StatusCompleted},
		{"day after", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), StatusCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.DerivedStatus(tc.now); got != tc.want {
				t.Fatalf("DerivedStatus(%s) = %s, want %s", tc.now, got, tc.want)
			}
		})
	}
}

func TestDerivedStatusKeepsCancelled(t *testing.T) {
	r := Reservation{
		Date:      "2026-03-10",
		StartTime: "10:00",
		EndTime:   "11:00",
		Status:    StatusCancelled,
	}
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	if got := r.DerivedStatus(now); got != StatusCancelled {
		t.Fatalf("cancelled reservation derived %s", got)
	}
}
