// Package database owns the connection to the relational store.
//
// It handles:
//   - opening the configured engine (file-backed SQLite by default,
//     PostgreSQL through pgx's database/sql driver)
//   - wiring query tracing/logging for PostgreSQL (pgx tracelog, nrpgx5)
//   - creating the survey table on startup
//   - handing out scoped sessions: one connection + transaction per
//     operation, always released
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/deppfellow/survey/internal/config"
	loggerConfig "github.com/deppfellow/survey/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DatabasePingTimeout is the number of seconds to wait for a ping
// before considering the database unreachable.
const DatabasePingTimeout = 10

// sqliteBusyTimeout is how long (ms) a SQLite statement waits on a lock.
const sqliteBusyTimeout = 5000

// Database wraps the shared *sql.DB handle, the SQL dialect in use and a
// logger. It is constructed once at startup and passed to repositories.
type Database struct {
	DB      *sql.DB
	dialect Dialect
	log     *zerolog.Logger

	slowQueryThreshold time.Duration
}

// multiTracer allows chaining multiple pgx tracers.
//
// pgx supports a single Tracer in ConnConfig; this adapter runs the
// New Relic tracer and the local SQL log tracer side by side.
type multiTracer struct {
	tracers []any
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// New opens the configured database and pings it.
//
// Inputs:
//   - cfg: application config (driver, path or host/port/user/..., pool settings)
//   - logger: main app logger
//   - loggerService: optional New Relic service (nil if not configured)
//
// Any failure here is a startup failure: the process must not serve
// requests against a storage layer it could not reach.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	var (
		sqlDB   *sql.DB
		dialect Dialect
		err     error
	)

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		dialect = SQLite
		sqlDB, err = openSQLite(cfg.Database)
	case config.DriverPostgres:
		dialect = Postgres
		sqlDB, err = openPostgres(cfg, logger, loggerService)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	database := &Database{
		DB:      sqlDB,
		dialect: dialect,
		log:     logger,
	}
	if cfg.Observability != nil {
		database.slowQueryThreshold = cfg.Observability.Logging.SlowQueryThreshold
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", dialect.Name).Msg("connected to the database")

	return database, nil
}

// openSQLite opens the survey file, creating its parent directory if needed.
//
// SQLite allows a single writer, so the pool is capped at one connection:
// concurrent sessions queue on the pool instead of failing with SQLITE_BUSY.
func openSQLite(cfg config.DatabaseConfig) (*sql.DB, error) {
	path := cfg.Path
	if path != ":memory:" {
		path = filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, sqliteBusyTimeout)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return sqlDB, nil
}

// postgresDSN builds the postgres URL, escaping the password so
// characters like ':' or '@' cannot break its structure.
func postgresDSN(cfg config.DatabaseConfig) string {
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		hostPort,
		cfg.Name,
		cfg.SSLMode,
	)
}

// openPostgres opens a database/sql handle backed by pgx.
//
// The New Relic tracer is attached when the agent runs; in the "local"
// env SQL statements are also logged through pgx tracelog + zerolog.
func openPostgres(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*sql.DB, error) {
	connConfig, err := pgx.ParseConfig(postgresDSN(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx config: %w", err)
	}

	if loggerService.GetApplication() != nil {
		connConfig.Tracer = nrpgx5.NewTracer()
	}

	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)

		localTracer := &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		}

		if connConfig.Tracer != nil {
			connConfig.Tracer = &multiTracer{
				tracers: []any{connConfig.Tracer, localTracer},
			}
		} else {
			connConfig.Tracer = localTracer
		}
	}

	sqlDB := stdlib.OpenDB(*connConfig)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second)

	return sqlDB, nil
}

// Rebind rewrites '?' placeholders into the engine's bind syntax.
func (db *Database) Rebind(query string) string {
	return db.dialect.Rebind(query)
}

// Ping verifies the database is reachable.
func (db *Database) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	return db.DB.Close()
}
