// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/api"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/config"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/service"
	"github.com/andresuchdata/abc-repuestos/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if cfg.Server.Mode == "release" {
		logger.UseJSON(os.Stdout)
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	logger.SetLevel(cfg.App.LogLevel)

	// Initialize services
	metrics := service.NewMetrics()
	analysisService, err := service.NewFromConfig(cfg, metrics)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize analysis service")
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		AnalysisService: analysisService,
		Metrics:         metrics,
		MaxUploadMB:     cfg.Server.MaxUploadMB,
	}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
