// Package repository implements data access for the charging hub on
// top of database/sql. This file defines sentinel error values
// shared across repositories so handlers can map failure scenarios
// onto HTTP statuses without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with existing state:
// a slot that is already reserved for the session, or a plate that
// already holds an overlapping reservation. The client's occupancy
// view may have gone stale between validation and submission.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
