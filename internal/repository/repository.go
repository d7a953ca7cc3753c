// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch and persist data,
// abstracting SQL logic away from the service layer. Every operation
// runs inside its own scoped session (database.WithSession).
package repository

import "errors"

var (
	// ErrStorageWrite wraps any failure to persist a record.
	ErrStorageWrite = errors.New("storage write failed")

	// ErrStorageRead wraps any failure to read records back.
	ErrStorageRead = errors.New("storage read failed")
)
