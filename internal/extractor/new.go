package extractor

import (
	"github.com/lehoangnam2310/lectureflow/internal/config"
	"github.com/lehoangnam2310/lectureflow/internal/logger"
	"github.com/lehoangnam2310/lectureflow/pkg/executor"
)

type implExtractor struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Extractor instance
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Extractor {
	return &implExtractor{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
