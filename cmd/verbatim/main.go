package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/verbatim/internal/api"
	"github.com/MikeSquared-Agency/verbatim/internal/cache"
	"github.com/MikeSquared-Agency/verbatim/internal/config"
	"github.com/MikeSquared-Agency/verbatim/internal/genai"
	"github.com/MikeSquared-Agency/verbatim/internal/hermes"
	"github.com/MikeSquared-Agency/verbatim/internal/processor"
	"github.com/MikeSquared-Agency/verbatim/internal/store"
	"github.com/MikeSquared-Agency/verbatim/internal/structurer"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("verbatim starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Generation client
	if cfg.OpenAIAPIKey == "" {
		slog.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}
	gen := genai.NewClient(
		cfg.OpenAIAPIKey,
		cfg.OpenAIBaseURL,
		cfg.Model,
		cfg.GenMaxAttempts,
		time.Duration(cfg.GenRetryDelayMS)*time.Millisecond,
		slog.Default(),
	)
	slog.Info("generation client ready", "model", cfg.Model)

	// Response cache
	respCache := cache.New(cfg.CacheMaxEntries, time.Duration(cfg.CacheTTLMinutes)*time.Minute)

	str := structurer.New(gen, respCache, slog.Default())

	// Result store is optional; without it runs just aren't persisted.
	var db *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		db, err = store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set, running without run persistence")
	}

	// NATS/Hermes
	hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer hermesClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	var proc *processor.Processor
	if db != nil {
		proc = processor.New(str, hermesClient, db, slog.Default())
	} else {
		proc = processor.New(str, hermesClient, nil, slog.Default())
	}

	if err := hermesClient.Subscribe(hermes.SubjectTranscriptStored, proc.HandleTranscriptStored); err != nil {
		slog.Error("failed to subscribe to transcript events", "error", err)
		os.Exit(1)
	}

	// HTTP API
	var runs api.RunStore
	if db != nil {
		runs = db
	}
	srv := api.NewServer(cfg.Port, str, runs)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if err := hermesClient.Publish("swarm.agent.verbatim.registered", map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("verbatim ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("verbatim stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
