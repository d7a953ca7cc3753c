package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/survey/internal/config"
	"github.com/deppfellow/survey/internal/database"
	"github.com/deppfellow/survey/internal/handler"
	"github.com/deppfellow/survey/internal/logger"
	"github.com/deppfellow/survey/internal/repository"
	"github.com/deppfellow/survey/internal/router"
	"github.com/deppfellow/survey/internal/server"
	"github.com/deppfellow/survey/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const DefaultContextTimeout = 30

// flags override the matching config keys when set.
type flags struct {
	port   string
	dbPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "survey",
		Short:         "Survey collection service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), f)
		},
	}
	root.PersistentFlags().StringVar(&f.dbPath, "db", "", "SQLite database path (overrides SURVEY_DATABASE__PATH)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Initialize storage and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), f)
		},
	}
	serve.Flags().StringVar(&f.port, "port", "", "listen port (overrides SURVEY_SERVER__PORT)")
	root.Flags().AddFlagSet(serve.Flags())

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the survey schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), f)
		},
	}

	root.AddCommand(serve, initCmd)
	return root
}

// bootstrap loads config and builds the logger shared by every command.
func bootstrap(f *flags) (*config.Config, *logger.LoggerService, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return nil, nil, zerolog.Logger{}, err
	}

	if f.port != "" {
		cfg.Server.Port = f.port
	}
	if f.dbPath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = f.dbPath
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start New Relic:", err)
		return nil, nil, zerolog.Logger{}, err
	}

	return cfg, loggerService, logger.NewLoggerWithService(cfg.Observability, loggerService), nil
}

func runInit(ctx context.Context, f *flags) error {
	cfg, loggerService, log, err := bootstrap(f)
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	db, err := database.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to open database")
		return err
	}
	defer db.Close()

	if err := db.Initialize(ctx); err != nil {
		log.Error().Err(err).Msg("failed to initialize database")
		return err
	}
	return nil
}

func runServe(ctx context.Context, f *flags) error {
	cfg, loggerService, log, err := bootstrap(f)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		_ = srv.Shutdown(context.Background())
		log.Error().Err(err).Msg("could not create services")
		return err
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("failed to start server")
			_ = srv.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
