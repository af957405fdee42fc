package model

import "time"

// Reservation status values as stored in the `reservations.status`
// enum column. CONFIRMED is the state every reservation is created
// in; IN_PROGRESS and COMPLETED exist so that imports from external
// systems can persist an explicit state, but for display purposes
// the status is normally derived from wall-clock time via
// DerivedStatus.
const (
	StatusConfirmed  = "CONFIRMED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Reservation records one booking of a charging session (a physical
// pad/bay) for a contiguous window on a single calendar day.  Times
// are zero-padded "HH:MM" strings in the facility's business day.
// EndTime is exclusive and always after StartTime; a window never
// crosses midnight and "24:00" marks the end of the day.
//
// Fields:
//  ID              – UUID primary key.
//  SessionID       – charging session (bay) being reserved.
//  Plate           – licence plate exactly as entered by the user.
//  PlateNormalized – plate with whitespace removed and upper-cased,
//                    used for conflict checks and camera matching.
//  Date            – ISO calendar day ("2006-01-02").
//  StartTime       – inclusive window start ("HH:MM").
//  EndTime         – exclusive window end ("HH:MM", may be "24:00").
//  Status          – stored status, see constants above.
//  ContactEmail    – optional lower-cased contact address.
//  CreatedAt       – creation timestamp (UTC).
//  UpdatedAt       – last update timestamp (UTC).
type Reservation struct {
	ID              string    // reservations.id
	SessionID       uint64    // reservations.session_id
	Plate           string    // reservations.plate
	PlateNormalized string    // reservations.plate_normalized
	Date            string    // reservations.res_date
	StartTime       string    // reservations.start_time
	EndTime         string    // reservations.end_time
	Status          string    // reservations.status
	ContactEmail    *string   // reservations.contact_email (nullable)
	CreatedAt       time.Time // reservations.created_at
	UpdatedAt       time.Time // reservations.updated_at
}

// DerivedStatus maps the stored status onto the status the caller
// should display at the given moment. CANCELLED is terminal; any
// other stored value is reinterpreted against `now`, so a CONFIRMED
// reservation becomes IN_PROGRESS once its window opens and
// COMPLETED once it closes without the database ever being touched.
func (r Reservation) DerivedStatus(now time.Time) string {
	if r.Status == StatusCancelled {
		return StatusCancelled
	}
	today := now.Format("2006-01-02")
	if r.Date > today {
		return StatusConfirmed
	}
	if r.Date < today {
		return StatusCompleted
	}
	cur := now.Hour()*60 + now.Minute()
	start := hhmmToMinutes(r.StartTime)
	end := hhmmToMinutes(r.EndTime)
	switch {
	case cur < start:
		return StatusConfirmed
	case cur < end:
		return StatusInProgress
	default:
		return StatusCompleted
	}
}

// hhmmToMinutes is a forgiving local parser used only for status
// derivation; malformed values collapse to 0 rather than failing a
// read path. Strict parsing lives in the schedule package.
func hhmmToMinutes(s string) int {
	if len(s) != 5 || s[2] != ':' {
		return 0
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m
}
