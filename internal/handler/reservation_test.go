package handler

import (
	"testing"

	"github.com/iliyamo/ev-charge-hub/internal/schedule"
)

func TestValidateWindow(t *testing.T) {
	h := &ReservationHandler{Grid: schedule.NewGrid(0, 24)}

	cases := []struct {
		name    string
		date    string
		start   string
		end     string
		plate   string
		wantErr bool
	}{
		{"valid hour block", "2026-03-10", "10:00", "11:00", "12가3456", false},
		{"valid until day end", "2026-03-10", "23:00", "24:00", "서울12아3456", false},
		{"bad date", "2026-3-10", "10:00", "11:00", "12가3456", true},
		{"bad plate", "2026-03-10", "10:00", "11:00", "????", true},
		{"unaligned start", "2026-03-10", "10:15", "11:15", "12가3456", true},
		{"end before start", "2026-03-10", "11:00", "10:00", "12가3456", true},
		{"zero length", "2026-03-10", "10:00", "10:00", "12가3456", true},
		{"malformed time", "2026-03-10", "10h00", "11:00", "12가3456", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := h.validateWindow(tc.date, tc.start, tc.end, tc.plate)
			if gotErr := msg != ""; gotErr != tc.wantErr {
				t.Fatalf("validateWindow(%s %s-%s %q) = %q, wantErr=%v",
					tc.date, tc.start, tc.end, tc.plate, msg, tc.wantErr)
			}
		})
	}
}

func TestValidateWindowStaffedHours(t *testing.T) {
	h := &ReservationHandler{Grid: schedule.NewGrid(9, 22)}

	if msg := h.validateWindow("2026-03-10", "08:30", "09:30", "12가3456"); msg == "" {
		t.Fatal("window before opening accepted")
	}
	if msg := h.validateWindow("2026-03-10", "21:30", "22:30", "12가3456"); msg == "" {
		t.Fatal("window past closing accepted")
	}
	if msg := h.validateWindow("2026-03-10", "21:00", "22:00", "12가3456"); msg != "" {
		t.Fatalf("last staffed hour rejected: %s", msg)
	}
}
