package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rahulpattadi/toppers/internal/api"
	"github.com/rahulpattadi/toppers/internal/bank"
	"github.com/rahulpattadi/toppers/internal/browse"
	"github.com/rahulpattadi/toppers/internal/config"
	"github.com/rahulpattadi/toppers/internal/identity"
	"github.com/rahulpattadi/toppers/internal/maintenance"
	"github.com/rahulpattadi/toppers/internal/middleware"
	"github.com/rahulpattadi/toppers/internal/source"
	"github.com/rahulpattadi/toppers/internal/store"
	"github.com/rahulpattadi/toppers/web"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the question bank web server",
	Long: `Starts the HTTP server: the question page, the JSON API and the
live browsing websocket. Process settings come from the environment
(and .env); page settings come from the site config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Port = servePort
		}
		site, err := config.LoadSite(siteConfigPath(cfg.SiteConfig))
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg, site)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

//nolint:funlen // Startup wiring is intentionally sequential to keep dependency setup explicit.
func serve(parent context.Context, cfg *config.Config, site *config.SiteConfig) error {
	if parent == nil {
		parent = context.Background()
	}
	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "chapter", site.Chapter.Title)

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(parent); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	slog.Info("Database connected")

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataSource := cfg.DataSource
	if dataSource == "" {
		dataSource = site.Chapter.DataFile
	}
	catalog := bank.NewCatalog()
	reloader := source.NewReloader(
		source.NewLoader(dataSource, cfg.FetchTimeout),
		catalog, repo,
		cfg.Retry.DatabaseMaxRetries, cfg.Retry.DatabaseRetryBaseDelay,
	)

	// Initialize services.
	sm := browse.NewSessionManager()

	// The page shows a loading state until the first load lands.
	go func() {
		snap, err := reloader.Reload(ctx)
		if err != nil {
			slog.Error("Initial question load could not be recorded", "error", err)
		}
		sm.Broadcast(snap)
	}()

	// Initialize handlers.
	baseHandler := api.NewHandler(reloader, repo, sm, site, cfg)
	healthHandler := api.NewHealthHandler(repo, catalog, cfg)
	questionHandler := api.NewQuestionHandler(baseHandler)
	pageHandler := api.NewPageHandler(baseHandler)
	wsHandler := browse.NewWebSocketHandler(catalog, repo, sm, site, cfg.AllowedOrigins(), cfg.IsDevelopment())
	wsHandler.SetFragmentRenderer(web.RenderFragment)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS(cfg.AllowedOrigins(), identity.SessionHeaderName))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	healthHandler.RegisterHealth(r)
	questionHandler.RegisterRoutes(r)
	pageHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/browse", wsHandler.ServeHTTP)

	// Websocket connections are long lived, so there is no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	maintenance.StartSweeper(ctx, repo, maintenance.Options{
		Interval:       cfg.SweepInterval,
		PreferenceTTL:  cfg.PreferenceTTL,
		LoadLogSize:    maintenance.DefaultLoadLogSize,
		MaxRetries:     cfg.Retry.DatabaseMaxRetries,
		RetryBaseDelay: cfg.Retry.DatabaseRetryBaseDelay,
	})

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	}
	stop()

	slog.Info("Shutting down gracefully...")
	sm.CloseAll("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server stopped successfully")
	return nil
}
