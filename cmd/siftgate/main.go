package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/harborline/siftgate/internal/config"
	"github.com/harborline/siftgate/internal/db"
	dbRedis "github.com/harborline/siftgate/internal/db/redis"
	dbValkey "github.com/harborline/siftgate/internal/db/valkey"
	"github.com/harborline/siftgate/internal/domain"
	logpkg "github.com/harborline/siftgate/internal/logger"
	"github.com/harborline/siftgate/internal/metrics"
	documentrepo "github.com/harborline/siftgate/internal/repository/document"
	"github.com/harborline/siftgate/internal/repository/embcache"
	searchrepo "github.com/harborline/siftgate/internal/repository/search"
	tablerepo "github.com/harborline/siftgate/internal/repository/table"
	chiTransport "github.com/harborline/siftgate/internal/transport/chi"
	openaiTransport "github.com/harborline/siftgate/internal/transport/openai"
	chatuc "github.com/harborline/siftgate/internal/usecase/chat"
	healthuc "github.com/harborline/siftgate/internal/usecase/health"
	ingestuc "github.com/harborline/siftgate/internal/usecase/ingest"
	searchuc "github.com/harborline/siftgate/internal/usecase/search"
	speechuc "github.com/harborline/siftgate/internal/usecase/speech"
	tableuc "github.com/harborline/siftgate/internal/usecase/table"
	"github.com/harborline/siftgate/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting siftgate API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Create database store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "valkey":
		store, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register provider metrics explicitly (no init())
	metrics.RegisterProviderMetrics()

	// Embedder chain: OpenAI provider wrapped in the store-backed cache
	baseEmbedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	var embedder domain.Embedder = embcache.New(
		baseEmbedder, store, cfg.Embedding.Model,
		time.Duration(cfg.Embedding.CacheTTL)*time.Second,
		metrics.EmbeddingCacheTotal, logger,
	)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	chatProvider := openaiTransport.NewChatProvider(&openaiTransport.ChatConfig{
		APIKey:  cfg.Chat.APIKey,
		BaseURL: cfg.Chat.BaseURL,
		Logger:  logger,
	})
	speechProvider := openaiTransport.NewSpeechProvider(&openaiTransport.SpeechConfig{
		APIKey:          cfg.Speech.APIKey,
		BaseURL:         cfg.Speech.BaseURL,
		TranscribeModel: cfg.Speech.TranscribeModel,
		Logger:          logger,
	})

	// Repositories
	tableRepo := tablerepo.New(store, cfg.Embedding.Dimensions)
	docRepo := documentrepo.New(store)
	searchRepo := searchrepo.New(store)

	// Use case services
	tableSvc := tableuc.New(tableRepo, logger)
	searchSvc := searchuc.New(searchRepo, tableSvc, embedder,
		cfg.Search.MaxLimit, cfg.Search.Oversample, logger)
	ingestSvc := ingestuc.New(docRepo, tableSvc, embedder, cfg.Embedding.Dimensions, logger)
	chatSvc := chatuc.New(chatProvider, cfg.Chat.DefaultModel, cfg.Chat.APIKey != "")
	speechSvc := speechuc.New(speechProvider, cfg.Speech.TTSModel, cfg.Speech.TranscribeModel,
		cfg.Speech.APIKey != "")
	healthSvc := healthuc.New(store, baseEmbedder, chatSvc, speechSvc)

	server := chiTransport.NewServer(tableSvc, searchSvc, ingestSvc, chatSvc, speechSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
