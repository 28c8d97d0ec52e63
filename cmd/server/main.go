package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lehoangnam2310/lectureflow/internal/config"
	"github.com/lehoangnam2310/lectureflow/internal/extractor"
	"github.com/lehoangnam2310/lectureflow/internal/logger"
	"github.com/lehoangnam2310/lectureflow/internal/pipeline"
	"github.com/lehoangnam2310/lectureflow/internal/quizgen"
	"github.com/lehoangnam2310/lectureflow/internal/server"
	"github.com/lehoangnam2310/lectureflow/internal/summarizer"
	"github.com/lehoangnam2310/lectureflow/internal/transcriber"
	"github.com/lehoangnam2310/lectureflow/pkg/executor"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments export the variables directly
	_ = godotenv.Load()

	cfg, err := config.Load(configPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	keys, err := config.LoadKeys()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load API keys: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "Starting lectureflow API server")
	log.Info(ctx, "Upload folder: %s", cfg.Paths.Upload)
	log.Info(ctx, "Output folder: %s", cfg.Paths.Output)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	exec := executor.New()
	ext := extractor.New(cfg, exec, log)
	tr := transcriber.New(keys.OpenAI, cfg, log)
	summ := summarizer.New(keys.Gemini, cfg, log)
	qg := quizgen.New(keys.OpenAI, cfg, log)
	orch := pipeline.New(cfg, ext, tr, summ, qg, log)

	srv := server.New(cfg, log, orch, summ)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Listen()
	}()

	log.Info(ctx, "Listening on %s:%d", cfg.Server.Host, cfg.Server.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "Graceful shutdown failed: %v", err)
	}

	log.Info(ctx, "Server stopped")
}

func configPath() string {
	if path := os.Getenv("LECTUREFLOW_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Upload,
		cfg.Paths.Output,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
