package pipeline

import (
	"github.com/lehoangnam2310/lectureflow/internal/config"
	"github.com/lehoangnam2310/lectureflow/internal/extractor"
	"github.com/lehoangnam2310/lectureflow/internal/logger"
	"github.com/lehoangnam2310/lectureflow/internal/quizgen"
	"github.com/lehoangnam2310/lectureflow/internal/summarizer"
	"github.com/lehoangnam2310/lectureflow/internal/transcriber"
)

type implOrchestrator struct {
	cfg         *config.Config
	extractor   extractor.Extractor
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	quizzer     quizgen.Generator
	logger      logger.Logger
}

// New creates a new Orchestrator instance
func New(
	cfg *config.Config,
	ext extractor.Extractor,
	tr transcriber.Transcriber,
	summ summarizer.Summarizer,
	qg quizgen.Generator,
	log logger.Logger,
) Orchestrator {
	return &implOrchestrator{
		cfg:         cfg,
		extractor:   ext,
		transcriber: tr,
		summarizer:  summ,
		quizzer:     qg,
		logger:      log,
	}
}
