package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sensor_dashboard/internal/config"
	"sensor_dashboard/internal/handlers"
	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/repository"
	"sensor_dashboard/internal/repository/db"
	"sensor_dashboard/internal/server"
	"sensor_dashboard/internal/service"
	"sensor_dashboard/internal/supabase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// bootstrap logger until config says otherwise
	log := logger.New(logger.Options{Level: logger.InfoLevel})

	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrConfigurationMissing) {
			log.Fatalw("configuration missing", "err", err)
		}
		log.Fatalw("error reading config", "err", err)
	}
	log = logger.New(logger.Options{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding})
	defer func() { _ = log.Sync() }()

	repos, closeStore, err := openStore(cfg, log)
	if err != nil {
		log.Fatalw("failed to open store", "driver", cfg.Store.Driver, "err", err)
	}
	defer closeStore()

	// wire dependencies
	services := service.NewService(repos, service.Deps{
		Log:          log.Named("service"),
		IngestSource: cfg.Ingest.Source,
	})
	apiHandler := handlers.NewHandler(services, log.Named("http"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Sim.Enabled {
		log.Infow("simulator enabled", "interval", cfg.Sim.Interval)
		go services.Simulator.Run(ctx, cfg.Sim.Interval)
	}

	srv := server.New(server.DefaultTimeouts())
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

// openStore builds the repositories for the configured driver and returns a
// matching close func.
func openStore(cfg *config.Config, log *logger.Logger) (*repository.Repository, func(), error) {
	if cfg.Store.Driver == config.DriverREST {
		client, err := supabase.NewProvider(cfg.Supabase).Client()
		if err != nil {
			return nil, nil, err
		}
		checkAnonKey(cfg.Supabase.AnonKey, log)
		log.Infow("using supabase store", "url", client.URL())
		return repository.NewRESTRepository(client), func() {}, nil
	}

	dialect, err := db.DialectFor(cfg.Store.Driver)
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Open(dialect, cfg.Store.DSN)
	if err != nil {
		return nil, nil, err
	}
	log.Infow("using sql store", "driver", dialect.Name)
	closeFn := func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}
	return repository.NewSQLRepository(conn, dialect), closeFn, nil
}

// checkAnonKey warns about keys that will be rejected or over-privileged.
func checkAnonKey(key string, log *logger.Logger) {
	info, err := supabase.InspectAnonKey(key)
	if err != nil {
		if !supabase.IsNotJWT(err) {
			log.Warnw("could not inspect anon key", "err", err)
		}
		return
	}
	if !info.IsAnon() {
		log.Warnw("anon key carries a non-anon role", "role", info.Role, "ref", info.Ref)
	}
	if info.Expired(time.Now()) {
		log.Warnw("anon key has expired", "expired_at", info.ExpiresAt, "ref", info.Ref)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
