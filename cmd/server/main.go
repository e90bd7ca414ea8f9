// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/erdgen/internal/api"
	"github.com/tomtom215/erdgen/internal/auth"
	"github.com/tomtom215/erdgen/internal/config"
	"github.com/tomtom215/erdgen/internal/crm"
	"github.com/tomtom215/erdgen/internal/erd"
	"github.com/tomtom215/erdgen/internal/logging"
	"github.com/tomtom215/erdgen/internal/supervisor"
	"github.com/tomtom215/erdgen/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("session_store", cfg.Security.SessionStore).
		Str("crm_api_version", cfg.CRM.APIVersion).
		Str("erd_mode", cfg.ERD.Mode).
		Msg("Starting ERDGen")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("ERDGen stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	factory, err := auth.NewSessionStoreFactory(&cfg.Security)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	defer func() {
		if err := factory.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()
	store := factory.CreateStore()

	client := crm.New(&cfg.CRM)

	generator, err := erd.NewGenerator(erd.Options{
		DefaultFieldLimit: cfg.ERD.DefaultFieldLimit,
		Concurrency:       cfg.ERD.Concurrency,
		Mode:              erd.Mode(cfg.ERD.Mode),
	})
	if err != nil {
		return fmt.Errorf("erd generator: %w", err)
	}

	sessionCfg := auth.SessionMiddlewareConfigFrom(&cfg.Security)
	sessionCfg.Unauthorized = api.UnauthorizedHandler
	sessions := auth.NewSessionMiddleware(store, sessionCfg)

	handler := api.NewHandler(cfg, client, generator, sessions)
	router := api.NewRouter(handler, sessions,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)),
		cfg.Server.StaticDir)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	tree.AddMaintenanceService(services.NewJanitorService(store, client, cfg.Security.SessionCleanup))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Str("static_dir", cfg.Server.StaticDir).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		// Wait so shutdown completes before the store closes.
		serveErr = <-errCh
	case serveErr = <-errCh:
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return serveErr
	}
	return nil
}
