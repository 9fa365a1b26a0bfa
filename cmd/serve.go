package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/vkdrive/vkdrive/internal/repositories"
	"github.com/vkdrive/vkdrive/internal/server"
	"github.com/vkdrive/vkdrive/internal/shared"
)

// Serve runs the vkdrive backend HTTP server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if loaded, err := shared.LoadConfig(configPath); err == nil {
		config = loaded
	}

	if config.Security.JWTSecret == "" {
		return fmt.Errorf("%w: security.jwt_secret must be set", shared.ErrInvalidConfig)
	}

	cipher, err := shared.NewTokenCipher(config.Security.EncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize token cipher: %w", err)
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	users := repositories.NewUserRepository(db)
	sessions := repositories.NewSessionRepository(db)

	if removed, err := sessions.DeleteExpired(); err != nil {
		r.logger.Warn("failed to prune expired sessions", "error", err)
	} else if removed > 0 {
		r.logger.Info("pruned expired sessions", "count", removed)
	}

	sessionDays := config.Security.SessionDays
	if sessionDays <= 0 {
		sessionDays = 7
	}
	ttl := time.Duration(sessionDays) * 24 * time.Hour

	router := server.NewBasicRouter()
	router.Use(
		server.Logging(r.logger),
		server.CORS(),
		server.Authenticator(config.Security.JWTSecret, users, sessions),
	)
	router.Handler(server.NewAuthHandler(users, sessions, cipher, config.Security.JWTSecret, ttl, r.logger))
	router.Handler(server.Wrap(server.NewUsersHandler(users, sessions, r.logger), server.RequireAdmin()))

	// ServeMux method matching answers preflights with 405 before the CORS
	// middleware runs, so register a catch-all OPTIONS route.
	router.Handle("OPTIONS /", http.NotFoundHandler())

	httpServer := &http.Server{
		Addr:    config.Server.Addr(),
		Handler: router,
	}

	serveCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("starting server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-serveCtx.Done():
	}

	r.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
