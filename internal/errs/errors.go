// Package errs holds the sentinel errors shared across the application.
package errs

import "errors"

// Domain errors.
var (
	// ErrInvalidRecord is returned for an alias record that can never be
	// stored (empty or oversized alias/destination). It never reaches a transaction.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrAliasTaken is returned when an alias already maps to a destination.
	// Nothing is written.
	ErrAliasTaken = errors.New("alias taken")
)

// Storage errors.
var (
	// ErrStorageInit means the store environment cannot be opened.
	ErrStorageInit = errors.New("storage init")
	// ErrStorageUnavailable means the store is closed or not reachable.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrStorageCommit means a write transaction failed to commit.
	// The mutation must be treated as not applied.
	ErrStorageCommit = errors.New("storage commit")
)

// Boundary errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrBodyTooLarge   = errors.New("request body too large")
	ErrNilDependency  = errors.New("nil dependency")
)
