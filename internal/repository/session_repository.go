package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ev-charge-hub/internal/model"
)

// SessionRepo provides access to the charging_sessions table. The
// set of sessions is small and static for a facility; it is seeded
// once at startup and read on nearly every request.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// List returns all charging sessions ordered by id.
func (r *SessionRepo) List(ctx context.Context) ([]model.ChargingSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM charging_sessions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ChargingSession
	for rows.Next() {
		var s model.ChargingSession
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get returns one session by id or ErrNotFound.
func (r *SessionRepo) Get(ctx context.Context, id uint64) (model.ChargingSession, error) {
	var s model.ChargingSession
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM charging_sessions WHERE id = ?`, id).Scan(&s.ID, &s.Name)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

// EnsureSeeded inserts the base sessions when the table holds fewer
// rows than the provided names. Existing rows are never modified, so
// re-running the seed on every startup is safe.
func (r *SessionRepo) EnsureSeeded(ctx context.Context, names []string) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM charging_sessions`).Scan(&count); err != nil {
		return err
	}
	if count >= len(names) {
		return nil
	}
	for i, name := range names {
		id := uint64(i + 1)
		_, err := r.db.ExecContext(ctx,
			`INSERT IGNORE INTO charging_sessions (id, name) VALUES (?, ?)`, id, name)
		if err != nil {
			return err
		}
	}
	return nil
}
