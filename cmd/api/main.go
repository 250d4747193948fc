package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/privlab/leakshare/internal/config"
	"github.com/privlab/leakshare/internal/db"
	"github.com/privlab/leakshare/internal/scheduler"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogFormat)

	database, err := db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass,
		cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Migrate(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	if cfg.DemoMode {
		if err := db.SeedDemoData(context.Background(), database); err != nil {
			slog.Error("demo seed failed", "error", err)
			os.Exit(1)
		}
	}

	router, harvester := newRouter(database, cfg)

	if cfg.ScraperCron != "" {
		if _, err := scheduler.Run(cfg.ScraperCron, harvester); err != nil {
			slog.Error("invalid SCRAPER_CRON", "cron", cfg.ScraperCron, "error", err)
			os.Exit(1)
		}
		slog.Info("scheduled scraper runs enabled", "cron", cfg.ScraperCron)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port, "demo_mode", cfg.DemoMode)
		var err error
		if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
