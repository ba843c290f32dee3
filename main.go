package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/fabval/cliparse"
	"github.com/danielhkuo/fabval/db"
	"github.com/danielhkuo/fabval/middleware"
	"github.com/danielhkuo/fabval/router"
	"github.com/danielhkuo/fabval/store"
	"github.com/danielhkuo/fabval/telemetry"
)

const version = "1.0.0"

func main() {
	var err error

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Warn("could not read .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := telemetry.Init(ctx, "fabval", version); err != nil {
		slog.Warn("telemetry disabled", "error", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()

	// Connect, waiting for the database to come up
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	if cfg.SeedFile != "" {
		catalog, err := db.LoadCatalog(cfg.SeedFile)
		if err != nil {
			slog.Error("catalog load failed", "file", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
		stats, err := store.New(dbConn).SeedCatalog(ctx, catalog)
		if err != nil {
			slog.Error("catalog seed failed", "file", cfg.SeedFile, "error", err)
			os.Exit(1)
		}
		slog.Info("Catalog seeded",
			"devices", stats.Devices,
			"blocks", stats.Blocks,
			"questions", stats.Questions,
			"links", stats.Links,
		)
	}

	mux := router.NewRouter(dbConn, cfg)

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigin, mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "port", cfg.Port, "allowed_origin", cfg.AllowedOrigin)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}
