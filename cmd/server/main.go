package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"portal/internal/config"
	"portal/internal/handler"
	"portal/internal/httpmiddleware"
	"portal/internal/notify"
	"portal/internal/store"
)

func main() {
	// Local .env files are optional; deployed environments set real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Env)

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "production" || env == "prod" {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func run(cfg config.App, logger zerolog.Logger) error {
	ctx := context.Background()

	var (
		st       store.Store
		sender   notify.Sender
		fsClient *firestore.Client
	)
	if cfg.StoreBackend == "memory" {
		st = store.NewMemory()
		sender = notify.NewLog(logger)
		logger.Warn().Msg("using in-memory store, data will not survive a restart")
	} else {
		app, err := store.NewApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()
		st = app.RTDB
		sender = notify.NewFCM(app.Messaging, cfg.NotifyTopic)
		fsClient = app.Firestore
		logger.Info().Str("project", cfg.ProjectID).Msg("firebase configured")
	}

	h := handler.New(st, sender, fsClient, logger)

	r := gin.New()
	r.Use(httpmiddleware.Recovery(logger))
	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.Logger(logger, "/healthz", "/metrics"))
	r.Use(httpmiddleware.Metrics())
	r.Use(cors.Default())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	// Give outstanding requests 10 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced shutdown")
	}

	logger.Info().Msg("server exited")
	return nil
}
