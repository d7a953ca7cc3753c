package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Initialize makes sure the surveys table exists.
//
// It is safe to call on every startup: the table is created only when
// absent and existing rows are never touched. An unwritable storage
// location surfaces here as an error, which callers treat as fatal.
func (db *Database) Initialize(ctx context.Context) error {
	err := db.WithSession(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, db.dialect.createSurveys)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	db.log.Info().Str("table", "surveys").Msg("database schema ready")
	return nil
}
