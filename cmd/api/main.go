// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/musicbesties/api/internal/config"
	"github.com/musicbesties/api/internal/handler"
	"github.com/musicbesties/api/internal/identity"
	"github.com/musicbesties/api/internal/llm"
	"github.com/musicbesties/api/internal/model"
	natsclient "github.com/musicbesties/api/internal/nats"
	"github.com/musicbesties/api/internal/service"
	"github.com/musicbesties/api/internal/store"
	"github.com/musicbesties/api/pkg/logger"
	"github.com/musicbesties/api/pkg/tracing"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server",
		zap.Bool("test_mode", cfg.TestMode),
		zap.String("chat_engine", cfg.ChatEngine),
	)

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "music-besties-api", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Store and identity
	var (
		st       store.Store
		provider identity.Provider
	)
	if cfg.TestMode {
		st = store.NewSeededMemoryStore()
		provider = identity.NewMockProvider(cfg.TokenSecret(), cfg.JWTExpiration, model.User{
			ID:    store.TestUserID,
			Email: store.TestUserEmail,
		})
		log.Info("test mode: using in-memory store and mock identity provider")
	} else {
		pg, err := store.NewPostgRESTStore(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			log.Fatal("failed to create store", zap.Error(err))
		}
		st = pg
		provider = identity.NewGoTrueProvider(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseJWTSecret)
	}

	// Initialize LLM client
	var llmClient llm.Client
	if cfg.LLMAPIKey() != "" {
		c, err := llm.NewClient(llm.Provider(cfg.LLMProvider), cfg.LLMAPIKey(), cfg.OpenAIBaseURL)
		if err != nil {
			log.Warn("failed to create LLM client, replies will fall back", zap.Error(err))
		} else {
			llmClient = c
		}
	} else if cfg.ChatEngine == config.EngineLLM {
		log.Warn("no LLM API key configured, replies will fall back")
	}

	// Connect to NATS when configured; chat events are best-effort.
	var (
		natsClient *natsclient.Client
		events     service.EventPublisher
	)
	if cfg.NATSURL != "" {
		nc, err := natsclient.Connect(ctx, natsclient.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, chat events disabled", zap.Error(err))
		} else {
			defer nc.Close()
			publisher := natsclient.NewEventPublisher(nc)
			if err := publisher.EnsureStream(ctx); err != nil {
				log.Warn("failed to ensure chat event stream", zap.Error(err))
			}
			natsClient = nc
			events = publisher
		}
	}

	// Initialize services
	delegate := service.NewDelegate(llmClient, cfg.LLMModel, cfg.LLMTimeout, log)
	chatSvc := service.NewChatService(cfg.ChatEngine, st, delegate, events, log)
	musicSvc := service.NewMusicService(st, log)
	authSvc := service.NewAuthService(provider, st, log)

	log.Info("chat service ready",
		zap.String("engine", chatSvc.Engine()),
		zap.String("model", delegate.Model()),
		zap.Bool("llm_client", llmClient != nil),
		zap.Bool("chat_events", events != nil),
	)

	r := handler.NewRouter(handler.RouterConfig{
		Chat:              chatSvc,
		Music:             musicSvc,
		Auth:              authSvc,
		Store:             st,
		Verifier:          provider,
		NATS:              natsClient,
		AllowedOrigins:    cfg.AllowedOrigins(),
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		Logger:            log,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
