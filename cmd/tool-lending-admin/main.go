// main is the entry point of the tool lending admin console.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the SQLite audit log
//  4. Build the lending backend client
//  5. Register the console screens
//  6. Serve until an OS signal arrives, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/tool-lending-admin --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/tool-lending-admin
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aanand-mishra/tool-lending-admin/internal/api"
	"github.com/aanand-mishra/tool-lending-admin/internal/config"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/audit"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/category"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/crud"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/damagetype"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/fines"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/finesconfig"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/role"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/subcategory"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/handlers/user"
	"github.com/aanand-mishra/tool-lending-admin/internal/http/middleware"
	"github.com/aanand-mishra/tool-lending-admin/internal/notify"
	"github.com/aanand-mishra/tool-lending-admin/internal/storage/sqlite"
	"github.com/aanand-mishra/tool-lending-admin/internal/view"
)

const version = "1.0.0"

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	log.Info("starting tool-lending-admin",
		slog.String("env", cfg.Env),
		slog.String("version", version),
		slog.String("backend", cfg.Backend.BaseURL),
	)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// The audit log is the only data the console owns; everything else
	// lives behind the lending API.
	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("failed to create storage directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	storage, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()
	log.Info("storage initialised", slog.String("path", cfg.StoragePath))

	// ── 4. Backend Client ─────────────────────────────────────────────────
	client, err := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout,
		api.WithToken(cfg.Backend.Token),
		api.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to build backend client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	backend := api.NewBackend(client)

	renderer, err := view.New(log)
	if err != nil {
		log.Error("failed to parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}
	flash := notify.Flasher{CookieName: cfg.Flash.CookieName, Secure: cfg.Flash.Secure}

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	// Every managed resource gets the same route table from crud.Register:
	//   GET  /{res}              list page or JSON list
	//   POST /{res}              create
	//   POST /{res}/{id}         update (PUT for JSON callers)
	//   POST /{res}/{id}/active  soft delete or restore
	router := http.NewServeMux()

	deps := crud.Deps{Renderer: renderer, Flash: flash, Audit: storage, Logger: log}
	crud.Register(router, deps, category.Binding(backend))
	crud.Register(router, deps, subcategory.Binding(backend))
	crud.Register(router, deps, role.Binding(backend))
	crud.Register(router, deps, user.Binding(backend))
	crud.Register(router, deps, damagetype.Binding(backend))
	crud.Register(router, deps, finesconfig.Binding(backend))

	fines.Register(router, fines.Deps{Source: backend.Fines, Renderer: renderer, Flash: flash, Logger: log})
	audit.Register(router, audit.Deps{Storage: storage, Renderer: renderer, Logger: log})

	router.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/categories", http.StatusFound)
	})
	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	handler := middleware.Chain(router,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recover(log),
	)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 6. Serve and Wait for Shutdown Signal ─────────────────────────────
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		log.Info("shutdown signal received, stopping server...")
	case err := <-serveErr:
		log.Error("server encountered an error", slog.String("error", err.Error()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
