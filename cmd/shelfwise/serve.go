// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfwise/internal/api"
	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/authz"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/events"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/metrics"
	"github.com/tomtom215/shelfwise/internal/recommend"
	"github.com/tomtom215/shelfwise/internal/supervisor"
	"github.com/tomtom215/shelfwise/internal/supervisor/services"
)

const httpShutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, event router and regeneration scheduler",
		Long: `Start shelfwise under a supervisor tree with three layers:
  data  the interaction event router (when events are enabled)
  jobs  the scheduled cache regeneration
  api   the HTTP server

SIGINT or SIGTERM shuts every layer down gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Shelfwise with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer closeWithLog("database", db)

	c, err := openCache(&cfg.Cache)
	if err != nil {
		return err
	}
	defer closeWithLog("cache", c)

	engine, err := newEngine(cfg, db, c)
	if err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	// nil publisher: the recorder applies book metrics inline
	var publisher recommend.InteractionPublisher
	if cfg.Events.Enabled {
		bus, err := events.New(&cfg.Events, db.Books())
		if err != nil {
			return fmt.Errorf("failed to create event bus: %w", err)
		}
		defer closeWithLog("event bus", bus)
		if err := metrics.RegisterEventStats(prometheus.DefaultRegisterer, bus); err != nil {
			logging.Warn().Err(err).Msg("Event bus metrics not registered")
		}
		publisher = bus
		tree.AddDataService(services.NewEventRouterService(bus, logging.WithComponent("supervisor")))
		logging.Info().Msg("Event router added to supervisor tree")
	} else {
		logging.Info().Msg("Event bus disabled (EVENTS_ENABLED=false), metrics update synchronously")
	}

	recorder := recommend.NewRecorder(db.Books(), db.Interactions(), publisher, logging.WithComponent("recorder"))

	server, err := newHTTPServer(cfg, db, c, engine, recorder)
	if err != nil {
		return err
	}

	tree.AddJobService(services.NewRecommendService(engine, services.RecommendServiceConfig{
		GenerateOnStart: cfg.Recommend.GenerateOnStart,
		Schedule:        cfg.Recommend.Schedule,
	}, logging.WithComponent("supervisor")))
	logging.Info().
		Dur("schedule", cfg.Recommend.Schedule).
		Bool("generate_on_start", cfg.Recommend.GenerateOnStart).
		Msg("Recommendation scheduler added to supervisor tree")

	tree.AddAPIService(services.NewHTTPServerService(server, httpShutdownTimeout, logging.WithComponent("supervisor")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
	return nil
}

// newHTTPServer wires authentication, authorization and the handlers into
// an http.Server. It does not start listening.
func newHTTPServer(cfg *config.Config, db *database.DB, c *cache, engine *recommend.Engine, recorder *recommend.Recorder) (*http.Server, error) {
	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled() {
		m, err := auth.NewJWTManager(&cfg.Security)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize JWT manager: %w", err)
		}
		jwtManager = m
		logging.Info().Dur("token_ttl", m.TTL()).Msg("JWT authentication enabled")
	} else {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("SECURITY WARNING: Authentication is DISABLED (AUTH_MODE=none)")
		logging.Warn().Msg("Personalized, hybrid, generate and stats routes will return 401")
		logging.Warn().Msg("============================================================")
	}

	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{
		DefaultRole: cfg.Security.DefaultRole,
		AdminRole:   cfg.Security.AdminRole,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize authorization: %w", err)
	}

	handler, err := api.NewHandler(api.Dependencies{
		Books:        db.Books(),
		Interactions: db.Interactions(),
		Engine:       engine,
		Recorder:     recorder,
		CacheStats:   c.store,
		Database:     db,
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create API handler: %w", err)
	}

	router := api.NewRouter(handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		auth.NewMiddleware(jwtManager, cfg.Security.AuthMode),
		authz.NewMiddleware(enforcer),
	)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
		// no WriteTimeout: handlers set per-request deadlines and generate
		// runs under its own longer one
	}, nil
}
