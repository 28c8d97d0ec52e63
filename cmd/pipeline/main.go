package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lehoangnam2310/lectureflow/internal/config"
	"github.com/lehoangnam2310/lectureflow/internal/extractor"
	"github.com/lehoangnam2310/lectureflow/internal/logger"
	"github.com/lehoangnam2310/lectureflow/internal/pipeline"
	"github.com/lehoangnam2310/lectureflow/internal/quizgen"
	"github.com/lehoangnam2310/lectureflow/internal/summarizer"
	"github.com/lehoangnam2310/lectureflow/internal/transcriber"
	"github.com/lehoangnam2310/lectureflow/internal/watcher"
	"github.com/lehoangnam2310/lectureflow/pkg/executor"
)

// Watch mode: videos dropped into the input directory run through the same
// pipeline as HTTP uploads, with the summary additionally exported as docx.
func main() {
	ctx := context.Background()

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
	log.Info(ctx, "Starting lectureflow watch pipeline")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Watch)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Max concurrent processing: %d", cfg.Performance.MaxConcurrent)

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

	handler := func(ctx context.Context, videoPath string) error {
		res, err := orch.ProcessAll(ctx, videoPath, pipeline.Options{})
		if err != nil {
			return err
		}

		if res.SummaryErr != nil {
			log.Error(ctx, "Summarization failed for %s: %v", videoPath, res.SummaryErr)
		}
		if res.QuizErr != nil {
			log.Error(ctx, "Quiz generation failed for %s: %v", videoPath, res.QuizErr)
		}

		if res.Summary != "" {
			title := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
			docxPath := filepath.Join(cfg.Paths.Output, fmt.Sprintf("summary_%d.docx", time.Now().Unix()))
			if err := summ.WriteDocx(title, res.Summary, docxPath); err != nil {
				log.Warn(ctx, "Failed to write summary docx: %v", err)
			} else {
				log.Info(ctx, "Summary exported: %s", docxPath)
			}
		}

		log.Info(ctx, "Processed %s (transcript: %s, quiz: %s)",
			videoPath, res.Files.Transcript, res.Files.Quiz)
		return nil
	}

	w, err := watcher.New(cfg.Paths.Watch, handler, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "Watch pipeline is ready. Press Ctrl+C to stop")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	log.Info(ctx, "Watch pipeline stopped")
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
		cfg.Paths.Watch,
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
