// Package testutil holds helpers shared by package tests: a throwaway
// configuration, a silent logger and a freshly initialized SQLite store.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/deppfellow/survey/internal/config"
	"github.com/deppfellow/survey/internal/database"
	"github.com/deppfellow/survey/internal/server"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// NewConfig returns the default config pointed at a temp-dir database.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Primary.Env = "test"
	cfg.Database.Path = filepath.Join(t.TempDir(), "survey.db")
	cfg.Observability.Environment = "test"
	return cfg
}

// NewLogger returns a logger that discards everything.
func NewLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// NewDatabase opens and initializes a SQLite database for cfg and closes
// it when the test ends.
func NewDatabase(t *testing.T, cfg *config.Config) *database.Database {
	t.Helper()

	db, err := database.New(cfg, NewLogger(), nil)
	require.NoError(t, err)
	require.NoError(t, db.Initialize(context.Background()))

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// NewServer builds an application container around a fresh database.
// The HTTP server itself is not set up.
func NewServer(t *testing.T) *server.Server {
	t.Helper()

	cfg := NewConfig(t)
	return &server.Server{
		Config: cfg,
		Logger: NewLogger(),
		DB:     NewDatabase(t, cfg),
	}
}
