package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/ev-charge-hub/internal/model"
	"github.com/iliyamo/ev-charge-hub/internal/schedule"
	"github.com/iliyamo/ev-charge-hub/internal/utils"
)

// ReservationRepo provides CRUD operations for reservations and the
// derived reservation_slots table. Every reservation window is
// expanded into its 30-minute slot rows inside the same transaction
// that inserts the reservation; the unique (session_id, slot_date,
// slot_start) key on reservation_slots is the authoritative conflict
// guard, so two concurrent bookings of the same slot cannot both
// commit even when both passed the advisory client-side check.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// CreateParams carries the validated input for a single reservation.
// Times are zero-padded "HH:MM"; Date is an ISO calendar day. The
// caller is responsible for grid-level validation (alignment, day
// bounds); the repository enforces only the conflict invariants.
type CreateParams struct {
	SessionID    uint64
	Plate        string
	Date         string
	StartTime    string
	EndTime      string
	ContactEmail *string
}

// res_date goes through DATE_FORMAT so it scans as the same ISO string
// the API speaks, instead of the driver's parsed time.Time.
const reservationColumns = `id, session_id, plate, plate_normalized,
	DATE_FORMAT(res_date, '%Y-%m-%d'),
	start_time, end_time, status, contact_email, created_at, updated_at`

// Create inserts one reservation and its slot rows in a single
// transaction. It returns ErrConflict when any covered slot is
// already taken for the session or when the plate already holds an
// overlapping non-cancelled reservation on that date.
func (r *ReservationRepo) Create(ctx context.Context, p CreateParams) (model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := r.createTx(ctx, tx, p)
	if err != nil {
		return model.Reservation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// CreateBatch inserts several independent reservations for the same
// plate/session/date in one all-or-nothing transaction. Starts must
// already be validated and sorted by the caller; any conflict rolls
// back every member.
func (r *ReservationRepo) CreateBatch(ctx context.Context, p CreateParams, windows []schedule.Window) ([]model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	created := make([]model.Reservation, 0, len(windows))
	for _, w := range windows {
		member := p
		member.StartTime = w.Start
		member.EndTime = w.End()
		res, err := r.createTx(ctx, tx, member)
		if err != nil {
			return nil, err
		}
		created = append(created, res)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// createTx performs the conflict checks and inserts inside an open
// transaction. Slot rows are derived with the same walk the
// occupancy builder uses so storage and validation can never
// disagree about which slots a window covers.
func (r *ReservationRepo) createTx(ctx context.Context, tx *sql.Tx, p CreateParams) (model.Reservation, error) {
	start, err := schedule.ToMinutes(p.StartTime)
	if err != nil {
		return model.Reservation{}, err
	}
	end, err := schedule.ToMinutes(p.EndTime)
	if err != nil {
		return model.Reservation{}, err
	}

	normalized := utils.NormalizePlate(p.Plate)

	// A vehicle cannot be on two pads at once: reject when the plate
	// already holds an overlapping reservation on any session.
	var clash int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		  WHERE plate_normalized = ? AND res_date = ? AND status <> 'CANCELLED'
		    AND start_time < ? AND end_time > ?`,
		normalized, p.Date, p.EndTime, p.StartTime).Scan(&clash)
	if err != nil {
		return model.Reservation{}, err
	}
	if clash > 0 {
		return model.Reservation{}, ErrConflict
	}

	res := model.Reservation{
		ID:              uuid.NewString(),
		SessionID:       p.SessionID,
		Plate:           strings.TrimSpace(p.Plate),
		PlateNormalized: normalized,
		Date:            p.Date,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		Status:          model.StatusConfirmed,
		ContactEmail:    p.ContactEmail,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reservations
		  (id, session_id, plate, plate_normalized, res_date, start_time, end_time, status, contact_email)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.SessionID, res.Plate, res.PlateNormalized, res.Date,
		res.StartTime, res.EndTime, res.Status, res.ContactEmail)
	if err != nil {
		return model.Reservation{}, err
	}

	for cur := start; cur < end; cur += schedule.SlotMinutes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO reservation_slots (reservation_id, session_id, slot_date, slot_start)
			 VALUES (?, ?, ?, ?)`,
			res.ID, res.SessionID, res.Date, schedule.FromMinutes(cur))
		if err != nil {
			// MySQL error 1062: duplicate key on the unique
			// (session_id, slot_date, slot_start) index.
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				return model.Reservation{}, ErrConflict
			}
			return model.Reservation{}, err
		}
	}

	// Query back timestamps populated by column defaults.
	err = tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM reservations WHERE id = ?`, res.ID).
		Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// ListBySessionAndDate returns a session's reservations for one
// calendar day, ordered by start time.
func (r *ReservationRepo) ListBySessionAndDate(ctx context.Context, sessionID uint64, date string) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		  WHERE session_id = ? AND res_date = ?
		  ORDER BY start_time`, sessionID, date)
	if err != nil {
		return nil, err
	}
	return scanReservations(rows)
}

// ListByDate returns every session's reservations for one calendar
// day grouped per session, in session id order. Sessions without
// reservations appear with an empty slice so the availability
// aggregator sees the full facility.
func (r *ReservationRepo) ListByDate(ctx context.Context, sessions []model.ChargingSession, date string) ([]model.SessionReservations, error) {
	out := make([]model.SessionReservations, 0, len(sessions))
	for _, s := range sessions {
		reservations, err := r.ListBySessionAndDate(ctx, s.ID, date)
		if err != nil {
			return nil, err
		}
		out = append(out, model.SessionReservations{
			SessionID:    s.ID,
			Name:         s.Name,
			Reservations: reservations,
		})
	}
	return out, nil
}

// ForUser returns reservations matching the given identity, newest
// first. At least one of email or plate must be non-empty.
func (r *ReservationRepo) ForUser(ctx context.Context, email, plate string) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	var args []any
	if email != "" {
		q += ` AND LOWER(contact_email) = ?`
		args = append(args, strings.ToLower(email))
	}
	if plate != "" {
		q += ` AND plate_normalized = ?`
		args = append(args, utils.NormalizePlate(plate))
	}
	q += ` ORDER BY res_date DESC, start_time DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return scanReservations(rows)
}

// FindConflictingPlate returns the most recent non-cancelled
// reservation for the plate that overlaps the given window, or all
// statuses for the plate when no window is supplied. ErrNotFound
// means the plate is clear.
func (r *ReservationRepo) FindConflictingPlate(ctx context.Context, plate, date, startTime, endTime string) (model.Reservation, error) {
	normalized := utils.NormalizePlate(plate)
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE plate_normalized = ?`
	args := []any{normalized}
	if date != "" && startTime != "" && endTime != "" {
		q += ` AND status <> 'CANCELLED' AND res_date = ? AND start_time < ? AND end_time > ?`
		args = append(args, date, endTime, startTime)
	}
	q += ` ORDER BY res_date DESC, start_time DESC LIMIT 1`

	var res model.Reservation
	var contact sql.NullString
	err := r.db.QueryRowContext(ctx, q, args...).Scan(
		&res.ID, &res.SessionID, &res.Plate, &res.PlateNormalized, &res.Date,
		&res.StartTime, &res.EndTime, &res.Status, &contact, &res.CreatedAt, &res.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	if contact.Valid {
		v := contact.String
		res.ContactEmail = &v
	}
	return res, nil
}

// FindActiveByPlate returns the reservation whose window contains
// the given moment for the plate, or ErrNotFound. Used to match
// camera detections against bookings.
func (r *ReservationRepo) FindActiveByPlate(ctx context.Context, plate string, when time.Time) (model.Reservation, error) {
	date := when.Format("2006-01-02")
	at := schedule.FromMinutes(when.Hour()*60 + when.Minute())
	var res model.Reservation
	var contact sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		  WHERE plate_normalized = ? AND status <> 'CANCELLED'
		    AND res_date = ? AND start_time <= ? AND end_time > ?
		  ORDER BY start_time LIMIT 1`,
		utils.NormalizePlate(plate), date, at, at).Scan(
		&res.ID, &res.SessionID, &res.Plate, &res.PlateNormalized, &res.Date,
		&res.StartTime, &res.EndTime, &res.Status, &contact, &res.CreatedAt, &res.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	if contact.Valid {
		v := contact.String
		res.ContactEmail = &v
	}
	return res, nil
}

// Delete removes a reservation and its slot rows unconditionally
// (admin portal). ErrNotFound when the id does not exist.
func (r *ReservationRepo) Delete(ctx context.Context, id string) error {
	return r.deleteScoped(ctx, id, "", "")
}

// DeleteForUser removes a reservation only when it belongs to the
// given identity. ErrNotFound covers both a missing id and an
// identity mismatch so the endpoint does not leak other users'
// reservation ids.
func (r *ReservationRepo) DeleteForUser(ctx context.Context, id, email, plate string) error {
	return r.deleteScoped(ctx, id, email, plate)
}

func (r *ReservationRepo) deleteScoped(ctx context.Context, id, email, plate string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	q := `SELECT id FROM reservations WHERE id = ?`
	args := []any{id}
	if email != "" {
		q += ` AND LOWER(contact_email) = ?`
		args = append(args, strings.ToLower(email))
	}
	if plate != "" {
		q += ` AND plate_normalized = ?`
		args = append(args, utils.NormalizePlate(plate))
	}
	var found string
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&found); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reservation_slots WHERE reservation_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reservations WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// scanReservations drains rows into models, closing the rows.
func scanReservations(rows *sql.Rows) ([]model.Reservation, error) {
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		var contact sql.NullString
		if err := rows.Scan(
			&res.ID, &res.SessionID, &res.Plate, &res.PlateNormalized, &res.Date,
			&res.StartTime, &res.EndTime, &res.Status, &contact, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if contact.Valid {
			v := contact.String
			res.ContactEmail = &v
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
