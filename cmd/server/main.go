// leadsim - Leadership Conversation Simulator gateway
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/tapilabs/leadsim/internal/api"
	"github.com/tapilabs/leadsim/internal/backend"
	"github.com/tapilabs/leadsim/internal/config"
	"github.com/tapilabs/leadsim/internal/identity"
	"github.com/tapilabs/leadsim/internal/middleware"
	"github.com/tapilabs/leadsim/internal/store"
	"github.com/tapilabs/leadsim/internal/wizard"
	"github.com/tapilabs/leadsim/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting gateway", "port", cfg.Port, "backend", cfg.BackendURL, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	client := backend.New(backend.Options{
		BaseURL:     cfg.BackendURL,
		AdminKey:    cfg.AdminAPIKey,
		AccessToken: cfg.AccessToken,
		Timeout:     cfg.BackendTimeout,
	})

	// Stored credentials outrank a statically configured token: a code
	// exchange is the authoritative grant.
	creds, err := repo.GetCredentials(context.Background())
	if err != nil {
		slog.Error("Failed to read stored credentials", "error", err)
		os.Exit(1)
	}
	if creds.Valid() {
		client.SetAccessToken(creds.AccessToken)
		slog.Info("Loaded stored credentials", "company_id", creds.CompanyID, "campaign_code", creds.CampaignCode)
	}

	wizards := wizard.NewManager(cfg.SessionTTL)
	svc := wizard.NewService(client, cfg.ReportCompanyID)
	handler := api.NewHandler(repo, client, wizards, svc, cfg)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	handler.RegisterRoutes(r)

	// Serve the embedded form shell (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.BackendTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wizards.StartSweeper(ctx)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
