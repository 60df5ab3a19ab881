// Package repository defines the data access layer.  This file holds error
// values shared across repositories.  Sentinels let handlers map failure
// scenarios to HTTP statuses without inspecting driver errors: not-found
// sentinels become 404s and ErrConflict a 409.  Any other error from this
// package is a persistence failure and surfaces as a 500 after the
// enclosing transaction has rolled back.
package repository

import "errors"

// ErrConflict is returned when a write loses a unique-key race, such as a
// duplicate garage-user username.  Natural-key conflicts on customers and
// vehicles are merged in place and never produce this error.
var ErrConflict = errors.New("conflict")

// ErrJobNotFound is returned when a job id does not resolve to a live
// (non-soft-deleted) row.
var ErrJobNotFound = errors.New("job not found")

// ErrPartNotFound is returned when a (part id, job id) pair matches no
// row.  A part reached through the wrong job's context is treated exactly
// like a missing part.
var ErrPartNotFound = errors.New("part not found")

// ErrGarageNotFound is returned for absent or soft-deleted garages.
var ErrGarageNotFound = errors.New("garage not found")

// ErrGarageUserNotFound is returned when a garage user id or username does
// not resolve to an active, non-deleted account.
var ErrGarageUserNotFound = errors.New("garage user not found")
