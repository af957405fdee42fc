package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema when it does not exist yet. Reservation ids
// are client-visible UUIDs; times are stored as zero-padded HH:MM strings
// so they sort and compare lexicographically, with "24:00" as the
// exclusive end of day. The unique key on reservation_slots is the
// authoritative double-booking guard.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS charging_sessions (
			id BIGINT UNSIGNED PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'USER',
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64) NOT NULL UNIQUE,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_refresh_user (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reservations (
			id CHAR(36) PRIMARY KEY,
			session_id BIGINT UNSIGNED NOT NULL,
			plate VARCHAR(32) NOT NULL,
			plate_normalized VARCHAR(32) NOT NULL,
			res_date DATE NOT NULL,
			start_time CHAR(5) NOT NULL,
			end_time CHAR(5) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'CONFIRMED',
			contact_email VARCHAR(255) NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_res_session_date (session_id, res_date),
			KEY idx_res_plate_date (plate_normalized, res_date)
		)`,
		`CREATE TABLE IF NOT EXISTS reservation_slots (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			reservation_id CHAR(36) NOT NULL,
			session_id BIGINT UNSIGNED NOT NULL,
			slot_date DATE NOT NULL,
			slot_start CHAR(5) NOT NULL,
			UNIQUE KEY uq_slot (session_id, slot_date, slot_start),
			KEY idx_slot_reservation (reservation_id)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
