// Package queue defines message payloads exchanged over the message broker.
package queue

// PlateDetectedEvent is emitted by the pad-side camera unit whenever it
// recognises a licence plate. Battery readings are optional: older camera
// firmware only reports the plate.
type PlateDetectedEvent struct {
    Plate          string   `json:"plate"`
    SessionID      uint64   `json:"session_id,omitempty"`
    DetectedAt     string   `json:"detected_at"`
    BatteryPercent *int     `json:"battery_percent,omitempty"`
    BatteryVoltage *float64 `json:"battery_voltage,omitempty"`
}

// ReservationCreatedEvent is published when a booking is committed. It
// carries enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type ReservationCreatedEvent struct {
    ReservationID string `json:"reservation_id"`
    SessionID     uint64 `json:"session_id"`
    SessionName   string `json:"session_name"`
    Plate         string `json:"plate"`
    Date          string `json:"date"`
    StartTime     string `json:"start_time"`
    EndTime       string `json:"end_time"`
    ContactEmail  string `json:"contact_email,omitempty"`
    CreatedAt     string `json:"created_at"`
}
