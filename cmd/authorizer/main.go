package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"sessiongate/internal/config"
	database "sessiongate/internal/core"
	logicv1 "sessiongate/internal/logic/v1"
	"sessiongate/internal/logger"
	"sessiongate/internal/web/authorizer"
	"sessiongate/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	logger.Setup(cfg.Logging.Level, cfg.Service.Env)

	log.Info().
		Str("service", cfg.Service.Name+"-authorizer").
		Str("version", cfg.Service.Version).
		Str("env", cfg.Service.Env).
		Str("port", cfg.Service.AuthorizerPort).
		Str("session_store", cfg.Store.Backend).
		Msg("Authorizer starting")

	var tp interface{ Shutdown(context.Context) error }
	var err error
	if cfg.Tracing.Enabled {
		tp, err = middleware.InitTracing(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize tracing")
		}
	}

	// The authorizer shares the session store with the backend; the
	// consistency contract between the two enforcement points only holds
	// when they consult the same records.
	store, closeStore, err := database.NewSessionStore(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize session store")
	}
	defer closeStore()

	authority := logicv1.NewAuthority(store, logicv1.Config{
		InactivityWindow: cfg.InactivityWindow(),
	})
	handler := authorizer.NewHandler(authority, cfg.Session.CookieName)

	if cfg.Service.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	if cfg.Tracing.Enabled {
		r.Use(middleware.TracingMiddleware(cfg.Service.Name + "-authorizer"))
	}
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Service.AuthorizerPort,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Service.AuthorizerPort).Msg("Starting authorizer")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Tracer shutdown error")
		}
	}

	log.Info().Msg("Graceful shutdown complete")
}
