// Package main is the entrypoint for the Plate Share API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/plateshare/plateshare/internal/auth"
	"github.com/plateshare/plateshare/internal/cache"
	"github.com/plateshare/plateshare/internal/config"
	"github.com/plateshare/plateshare/internal/handler"
	"github.com/plateshare/plateshare/internal/middleware"
	"github.com/plateshare/plateshare/internal/repository"
	"github.com/plateshare/plateshare/internal/server"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize document store
	repo, err := repository.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error(
			"failed to connect to store",
			slog.String("error", sanitizeError(err, cfg.MongoURI)),
			slog.String("mongo_uri", redactURL(cfg.MongoURI)),
		)
		os.Exit(1)
	}
	logger.Info("connected to store", slog.String("database", cfg.MongoDB))

	// A pre-existing collection with duplicate emails would make index
	// creation fail; the API still behaves via the handler pre-check, so
	// log and continue rather than refuse to start.
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Warn("failed to ensure indexes", slog.String("error", err.Error()))
	}

	// Initialize identity cache (optional)
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	} else {
		logger.Info("identity cache disabled, verifying every request")
	}

	// Initialize credential verifier
	verifier := auth.NewTokenVerifier(cfg.JWTSigningKey, cfg.JWTIssuer)

	// Setup router
	r := setupRouter(repo, cacheClient, verifier, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("store", repo.Close)
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error { return cacheClient.Close() })
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	repo *repository.Repository,
	cacheClient *cache.Cache,
	verifier auth.Verifier,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.BodyLimit(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	h := handler.New()
	userHandler := handler.NewUserHandler(repo, logger)
	foodHandler := handler.NewFoodHandler(repo, logger)
	requestHandler := handler.NewRequestHandler(repo, logger)

	var cacheChecker handler.HealthChecker
	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Verifier: verifier,
	}
	if cacheClient != nil {
		cacheChecker = cacheClient
		authCfg.Cache = cacheClient
	}
	healthHandler := handler.NewHealthHandler(repo, cacheChecker)

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root banner endpoint
	r.Get("/", h.Hello)

	// The API is served both bare and under /api: older clients use the
	// bare paths, newer ones the prefixed form.
	registerRoutes(r, userHandler, foodHandler, requestHandler, authCfg)
	r.Route("/api", func(r chi.Router) {
		registerRoutes(r, userHandler, foodHandler, requestHandler, authCfg)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// registerRoutes mounts the resource routes. Reads are public; mutations
// and the request collection sit behind the auth gate.
func registerRoutes(
	r chi.Router,
	userHandler *handler.UserHandler,
	foodHandler *handler.FoodHandler,
	requestHandler *handler.RequestHandler,
	authCfg middleware.AuthConfig,
) {
	r.Post("/users", userHandler.Create)

	r.Get("/featured-foods", foodHandler.Featured)
	r.Get("/foods", foodHandler.List)
	r.Get("/foods/availables", foodHandler.Available)
	r.Get("/foods/{id}", foodHandler.Get)

	r.Get("/my-requests", requestHandler.MyRequests)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))

		r.Post("/foods", foodHandler.Create)
		r.Patch("/foods/{id}", foodHandler.Update)
		r.Patch("/foods/status/{id}", foodHandler.UpdateStatus)
		r.Delete("/foods/{id}", foodHandler.Delete)

		r.Get("/food-req/{foodId}", requestHandler.ListByFood)
		r.Post("/food-req", requestHandler.Create)
		r.Patch("/food-req/{id}", requestHandler.UpdateStatus)
		r.Delete("/food-req/{id}", requestHandler.Delete)
	})
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
