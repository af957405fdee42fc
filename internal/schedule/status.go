package schedule

import (
	"time"

	"github.com/iliyamo/ev-charge-hub/internal/model"
)

// Display phases of a reservation relative to wall-clock time.
const (
	PhaseUpcoming = "upcoming"
	PhaseActive   = "active"
	PhaseDone     = "done"
)

// SensorStatus is the pad-side vehicle presence signal.
type SensorStatus int

const (
	SensorUnknown SensorStatus = iota
	SensorAbsent
	SensorDetected
)

// SensorFunc resolves the presence signal for a reservation. Pass
// nil (or a func returning SensorUnknown) when no sensor feed is
// wired; the signal only varies cosmetic sub-labels and never
// affects the phase.
type SensorFunc func(reservationID string) SensorStatus

// Display is the presentation of a reservation's real-time state.
// BadgeClass carries the style token the portals attach to the
// status badge.
type Display struct {
	Phase      string
	Label      string
	Subtext    string
	BadgeClass string
}

// Derive classifies a reservation against `now` into its display
// phase. CANCELLED reservations get a fixed presentation; otherwise
// the phase follows the window: before start is upcoming, inside
// [start, end) is active, after is done.
func Derive(r model.Reservation, now time.Time, sensor SensorFunc) Display {
	if r.Status == model.StatusCancelled {
		return Display{
			Phase:      PhaseDone,
			Label:      "cancelled",
			Subtext:    "cancelled by user",
			BadgeClass: "bg-gray-200 text-gray-700",
		}
	}

	st := SensorUnknown
	if sensor != nil {
		st = sensor(r.ID)
	}

	switch r.DerivedStatus(now) {
	case model.StatusConfirmed:
		d := Display{
			Phase:      PhaseUpcoming,
			Label:      "awaiting arrival",
			Subtext:    "vehicle not arrived",
			BadgeClass: "bg-slate-100 text-slate-700",
		}
		if st == SensorDetected {
			d.Label = "early arrival"
			d.Subtext = "vehicle detected"
			d.BadgeClass = "bg-amber-100 text-amber-700"
		}
		return d
	case model.StatusInProgress:
		d := Display{
			Phase:      PhaseActive,
			Label:      "charging",
			Subtext:    "vehicle on pad",
			BadgeClass: "bg-emerald-100 text-emerald-700",
		}
		if st == SensorAbsent {
			d.Label = "arrival check needed"
			d.Subtext = "no vehicle detected"
			d.BadgeClass = "bg-amber-100 text-amber-700"
		}
		return d
	default:
		return Display{
			Phase:      PhaseDone,
			Label:      "completed",
			Subtext:    "charging session ended",
			BadgeClass: "bg-indigo-100 text-indigo-700",
		}
	}
}

// SeededSensor is a deterministic stand-in for a real presence feed:
// it hashes the reservation id and reports detected for even hashes,
// absent otherwise.
func SeededSensor(reservationID string) SensorStatus {
	h := 0
	for i := 0; i < len(reservationID); i++ {
		h = h*31 + int(reservationID[i])
	}
	if h < 0 {
		h = -h
	}
	if h%2 == 0 {
		return SensorDetected
	}
	return SensorAbsent
}
