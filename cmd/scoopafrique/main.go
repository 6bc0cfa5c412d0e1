// Package main is the entry point for the Scoop Afrique editorial server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ngucho/scoop-afrique-sub000/internal/article"
	"github.com/ngucho/scoop-afrique-sub000/internal/cache"
	"github.com/ngucho/scoop-afrique-sub000/internal/config"
	"github.com/ngucho/scoop-afrique-sub000/internal/database"
	"github.com/ngucho/scoop-afrique-sub000/internal/editlock"
	"github.com/ngucho/scoop-afrique-sub000/internal/handlers"
	"github.com/ngucho/scoop-afrique-sub000/internal/notify"
	"github.com/ngucho/scoop-afrique-sub000/internal/router"
	"github.com/ngucho/scoop-afrique-sub000/internal/session"
	"github.com/ngucho/scoop-afrique-sub000/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions, edit leases, feed cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. In non-development environments,
	// mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Edit leases and the public feed cache share the Valkey client.
	locks := editlock.NewManager(valkeyClient, cfg.EditLease)
	feedCache := cache.NewFeedCache(valkeyClient, cache.DefaultFeedTTL)

	// Data stores.
	userStore := store.NewUserStore(db)
	articleStore := store.NewArticleStore(db)
	revisionStore := store.NewRevisionStore(db)
	collaboratorStore := store.NewCollaboratorStore(db)
	commentStore := store.NewCommentStore(db)
	categoryStore := store.NewCategoryStore(db)

	// The save pipeline and the notification aggregator.
	svc := article.NewService(articleStore, revisionStore, collaboratorStore, commentStore, userStore, locks)
	aggregator := notify.NewAggregator(commentStore)

	// Handler groups with their dependencies.
	r := router.New(router.Deps{
		Sessions:      sessionStore,
		Auth:          handlers.NewAuth(sessionStore, userStore),
		Articles:      handlers.NewArticles(svc, feedCache),
		Locks:         handlers.NewLocks(locks),
		Collaborators: handlers.NewCollaborators(svc),
		Comments:      handlers.NewComments(svc),
		Notifications: handlers.NewNotifications(aggregator),
		Users:         handlers.NewUsers(userStore),
		Public:        handlers.NewPublic(svc, articleStore, categoryStore, commentStore, feedCache),
	})

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
