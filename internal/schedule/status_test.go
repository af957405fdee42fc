package schedule

import (
	"testing"
	"time"

	"github.com/iliyamo/ev-charge-hub/internal/model"
)

func statusRes(status string) model.Reservation {
	return model.Reservation{
		ID:        "a3f1c2d4",
		SessionID: 1,
		Date:      "2026-03-10",
		StartTime: "10:00",
		EndTime:   "11:30",
		Status:    status,
	}
}

func at(hhmm string) time.Time {
	t, _ := time.Parse("2006-01-02 15:04", "2026-03-10 "+hhmm)
	return t
}

func TestDerive_Phases(t *testing.T) {
	r := statusRes(model.StatusConfirmed)
	cases := []struct {
		now   time.Time
		phase string
	}{
		{at("09:59"), PhaseUpcoming},
		{at("10:00"), PhaseActive},
		{at("11:29"), PhaseActive},
		{at("11:30"), PhaseDone},
		{at("23:00"), PhaseDone},
	}
	for _, c := range cases {
		got := Derive(r, c.now, nil)
		if got.Phase != c.phase {
			t.Errorf("Derive at %v: phase = %s, want %s", c.now, got.Phase, c.phase)
		}
	}
}

func TestDerive_OtherDays(t *testing.T) {
	r := statusRes(model.StatusConfirmed)
	dayBefore, _ := time.Parse("2006-01-02", "2026-03-09")
	dayAfter, _ := time.Parse("2006-01-02", "2026-03-11")
	if got := Derive(r, dayBefore, nil); got.Phase != PhaseUpcoming {
		t.Errorf("day before: phase = %s, want upcoming", got.Phase)
	}
	if got := Derive(r, dayAfter, nil); got.Phase != PhaseDone {
		t.Errorf("day after: phase = %s, want done", got.Phase)
	}
}

func TestDerive_Cancelled(t *testing.T) {
	got := Derive(statusRes(model.StatusCancelled), at("10:30"), SeededSensor)
	if got.Phase != PhaseDone || got.Label != "cancelled" {
		t.Errorf("cancelled display = %+v", got)
	}
}

func TestDerive_SensorVariesLabelsOnly(t *testing.T) {
	r := statusRes(model.StatusConfirmed)
	detected := Derive(r, at("09:00"), func(string) SensorStatus { return SensorDetected })
	absent := Derive(r, at("09:00"), func(string) SensorStatus { return SensorAbsent })
	unknown := Derive(r, at("09:00"), nil)

	for _, d := range []Display{detected, absent, unknown} {
		if d.Phase != PhaseUpcoming {
			t.Fatalf("sensor changed phase: %+v", d)
		}
	}
	if detected.Label == absent.Label && detected.Subtext == absent.Subtext {
		t.Error("sensor signal should vary the cosmetic labels")
	}

	active := Derive(r, at("10:30"), func(string) SensorStatus { return SensorAbsent })
	if active.Phase != PhaseActive {
		t.Errorf("active phase with absent sensor = %s", active.Phase)
	}
	if active.Label != "arrival check needed" {
		t.Errorf("active+absent label = %q", active.Label)
	}
}

func TestSeededSensor_Deterministic(t *testing.T) {
	a := SeededSensor("res-123")
	for i := 0; i < 10; i++ {
		if SeededSensor("res-123") != a {
			t.Fatal("seeded sensor must be deterministic per id")
		}
	}
	if s := SeededSensor("res-123"); s != SensorDetected && s != SensorAbsent {
		t.Errorf("seeded sensor returned %v, want detected or absent", s)
	}
}
