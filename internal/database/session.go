package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionFunc is the unit of work run inside a scoped session.
type SessionFunc func(ctx context.Context, tx *sql.Tx) error

// WithSession runs fn inside a scoped session.
//
// A session is a dedicated connection taken from the shared pool plus a
// transaction on it. On every exit path the session is released:
//   - fn returns nil: the transaction is committed
//   - fn returns an error, panics, or ctx is cancelled: it is rolled back
//   - the connection always goes back to the pool
//
// A failed commit is returned to the caller; nothing from fn is kept.
func (db *Database) WithSession(ctx context.Context, fn SessionFunc) error {
	start := time.Now()

	conn, err := db.DB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire database session: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			db.log.Warn().Err(err).Msg("failed to release database session")
		}
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			db.log.Error().Err(err).Msg("failed to roll back transaction")
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	if elapsed := time.Since(start); db.slowQueryThreshold > 0 && elapsed > db.slowQueryThreshold {
		db.log.Warn().
			Dur("duration", elapsed).
			Dur("threshold", db.slowQueryThreshold).
			Msg("slow database session")
	}

	return nil
}
