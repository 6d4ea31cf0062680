// Package internal provides the main application initialization and runtime logic.
package internal

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
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/centrallog/internal/api"
	"github.com/starford/centrallog/internal/mcpserver"
	"github.com/starford/centrallog/internal/repository"
	"github.com/starford/centrallog/internal/settings"
	"github.com/starford/centrallog/internal/sse"
	"github.com/starford/centrallog/internal/watch"
)

// Run starts the HTTP service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, cfg, err := buildApplication(opts)
	if err != nil {
		return err
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	prefs, repo, err := openHome(app, cfg)
	if err != nil {
		return err
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("central_home", repo.Home()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build API service and router.
	svc := api.NewService(repo, prefs, cfg.AI.Model, cfg.AI.BaseURL,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the home for external changes and forward them over SSE.
	g.Go(func() error {
		if err := watch.Watch(gCtx, repo, logger, broker.PublishChange); err != nil {
			logger.Warn("watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools over stdio with the given options.
func RunMCP(_ context.Context, opts ...Option) error {
	app, cfg, err := buildApplication(opts)
	if err != nil {
		return err
	}

	// MCP owns stdout for the protocol; log to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	_, repo, err := openHome(app, cfg)
	if err != nil {
		return err
	}

	logger.Info("Serving MCP over stdio", slog.String("central_home", repo.Home()))

	srv := mcpserver.New(repo)
	return srv.ServeStdio()
}

func buildApplication(opts []Option) (*application, *Config, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}
	return app, app.config, nil
}

// openHome loads the settings blob, resolves the central home (config path,
// then persisted setting, then working directory), and opens a repository
// against the detected root.
func openHome(app *application, cfg *Config) (*settings.Store, *repository.Repository, error) {
	settingsPath := app.settingsPath
	if settingsPath == "" {
		var err error
		settingsPath, err = settings.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
	}
	prefs, err := settings.NewStore(settingsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	candidate := cfg.Home.Path
	if candidate == "" {
		candidate = prefs.Get(settings.KeyCentralHome)
	}
	if candidate == "" {
		candidate, err = os.Getwd()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve working directory: %w", err)
		}
	}

	home := repository.DetectHome(candidate)
	repo := repository.New(home)
	if err := repo.EnsureStructure(); err != nil {
		return nil, nil, fmt.Errorf("prepare central home: %w", err)
	}

	// Remember the detected home for the next start.
	if prefs.Get(settings.KeyCentralHome) != repo.Home() {
		prefs.Set(settings.KeyCentralHome, repo.Home())
		if err := prefs.Save(); err != nil {
			slog.Warn("persist settings failed", slog.String("error", err.Error()))
		}
	}

	return prefs, repo, nil
}
