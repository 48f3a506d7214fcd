// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/fieldkit/internal/api"
	"github.com/starford/fieldkit/internal/mcpserver"
	"github.com/starford/fieldkit/internal/session"
	"github.com/starford/fieldkit/internal/sse"
)

func newLogger(w io.Writer, cfg *Config) (*slog.Logger, *slog.LevelVar) {
	level := new(slog.LevelVar)
	level.Set(cfg.App.LogLevel)
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, level
}

// eventPublisher is the part of the SSE broker the console bridge needs.
type eventPublisher interface {
	Publish(sse.Event)
	PublishComponent(change sse.ComponentChange, id string)
}

// bridgeEvents forwards console events to p. A committed submit is also
// announced as a component change.
func bridgeEvents(p eventPublisher) session.Listener {
	return func(ev session.Event) {
		p.Publish(sse.Event{Type: string(ev.Kind), Data: ev.View})
		if ev.Result == nil {
			return
		}
		change := sse.ComponentUpdated
		if ev.Result.Outcome == session.OutcomeCreated {
			change = sse.ComponentCreated
		}
		p.PublishComponent(change, ev.Result.ID)
	}
}

func writeStatus(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Run starts the HTTP application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger, level := newLogger(os.Stdout, cfg)
	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("search_match", cfg.Search.Match),
		slog.Bool("search_case_sensitive", cfg.Search.CaseSensitive),
		slog.String("log_level", cfg.App.LogLevel.String()))

	repo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("store close failed", slog.String("error", err.Error()))
		}
	}()

	broker := sse.NewBroker(cfg.Events.Throttle)
	defer broker.Close()

	console := session.NewConsole(repo, session.WithLogger(logger))
	defer console.Subscribe(bridgeEvents(broker))()

	handler := api.NewHandler(repo, console, broker)
	apiRouter := api.NewRouter(handler, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, `{"status":"ok"}`)
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		if _, err := repo.List(req.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, `{"status":"unavailable"}`)
			return
		}
		writeStatus(w, http.StatusOK, `{"status":"ok"}`)
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if app.configPath != "" {
		g.Go(func() error {
			if err := WatchConfig(gCtx, app.configPath, level, logger); err != nil {
				logger.Warn("config watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		// SSE streams only end when their clients go; close them first.
		broker.Close()

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

// RunMCP serves the MCP tools on stdio. Logs go to stderr so they do not
// corrupt the protocol stream.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	logger, _ := newLogger(os.Stderr, app.config)
	repo, closeStore, err := openReadOnlyStore(ctx, app.config, logger)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("store close failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("Starting MCP server", slog.String("version", app.version))
	return mcpserver.New(repo, app.version).ServeStdio()
}
