package model

// ChargingSession is one physical wireless charging bay.  Sessions
// are seeded once at startup and referenced by every reservation.
//
// Fields:
//  ID   – primary key identifier.
//  Name – human readable label shown in both portals.
type ChargingSession struct {
	ID   uint64 // charging_sessions.id
	Name string // charging_sessions.name
}

// SessionReservations groups a session with its reservations for a
// single calendar day. It is the unit returned by the by-session
// listing endpoints and consumed by the availability aggregator.
type SessionReservations struct {
	SessionID    uint64
	Name         string
	Reservations []Reservation
}
