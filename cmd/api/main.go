package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"ecowaste-backend/pkg/container"
	"ecowaste-backend/pkg/logger"
)

func main() {
	// .env is optional; real deployments set env vars directly
	if err := godotenv.Load(); err != nil {
		log.Println("[MAIN] No .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ========================================
	// BOOTSTRAP
	// ========================================
	c, err := container.NewContainer(ctx)
	if err != nil {
		log.Fatalf("[MAIN] Failed to initialize container: %v", err)
	}
	defer c.Cleanup()

	logger.Init(c.Config.App.Environment)

	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(c)

	// ========================================
	// HTTP SERVER + GRACEFUL SHUTDOWN
	// ========================================
	srv := &http.Server{
		Addr:         ":" + c.Config.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", c.Config.App.Port).
			Str("environment", c.Config.App.Environment).
			Msg("starting HTTP server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[MAIN] Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server stopped")
}
