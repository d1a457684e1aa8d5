package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/lemonaid/internal/config"
	"github.com/benvon/lemonaid/internal/database"
	"github.com/benvon/lemonaid/internal/logger"
	"github.com/benvon/lemonaid/internal/middleware"
	"github.com/benvon/lemonaid/internal/telemetry"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Real environment variables win over .env entries
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to read .env file: %v", err)
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger := logger.FromSettings(cfg)
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("Starting server",
		zap.String("env", string(cfg.Env)),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Bool("cors_enabled", cfg.CORSEnabled),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	if !cfg.APIKeyConfigured() {
		zapLogger.Warn("API_KEY is not set; API routes are open", zap.String("prefix", cfg.APIPrefix))
	}
	if cfg.Supabase() == nil && (cfg.SupabaseURL != "" || cfg.SupabaseAnonKey != "") {
		zapLogger.Warn("Supabase configuration incomplete", zap.Bool("url_set", cfg.SupabaseURL != ""),
			zap.Bool("anon_key_set", cfg.SupabaseAnonKey != ""))
	}

	ctx := context.Background()
	deps := dependencies{}

	tp, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		zapLogger.Warn("Failed to initialize tracing", zap.Error(err))
	} else if tp != nil {
		deps.tracing = true
		zapLogger.Info("Tracing enabled", zap.String("endpoint", cfg.OTELEndpoint))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
				zapLogger.Error("Failed to shut down tracing", zap.Error(err))
			}
		}()
	}

	if cfg.DatabaseURL != "" {
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				zapLogger.Warn("Failed to close database connection", zap.Error(err))
			}
		}()

		repo := database.NewItemRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			zapLogger.Fatal("Failed to prepare database schema", zap.Error(err))
		}
		deps.db = db
		deps.items = repo
		zapLogger.Info("Connected to database")
	} else {
		deps.items = database.NewMemoryItemStore()
		zapLogger.Debug("DATABASE_URL not set, using in-memory item store")
	}

	if cfg.RateLimit != "" {
		limiter, err := newRateLimiter(ctx, cfg)
		if err != nil {
			zapLogger.Fatal("Failed to set up rate limiting", zap.Error(err))
		}
		defer func() {
			if err := limiter.Close(); err != nil {
				zapLogger.Warn("Failed to close rate limit store", zap.Error(err))
			}
		}()
		deps.rateLimiter = limiter
		zapLogger.Info("Rate limiting enabled", zap.String("rate", cfg.RateLimit), zap.Bool("redis", cfg.RedisURL != ""))
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHandler(cfg, zapLogger, deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	go func() {
		zapLogger.Info("Server listening on http://" + srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shut down", zap.Error(err))
		return
	}

	zapLogger.Info("Server exited")
}

func newRateLimiter(ctx context.Context, cfg *config.Settings) (*middleware.RateLimiter, error) {
	if cfg.RedisURL == "" {
		return middleware.NewRateLimiter(cfg.RateLimit, nil)
	}
	client, err := middleware.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	limiter, err := middleware.NewRateLimiter(cfg.RateLimit, client)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return limiter, nil
}
