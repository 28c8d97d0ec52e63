package summarizer

import (
	"sync"

	"github.com/lehoangnam2310/lectureflow/internal/config"
	"github.com/lehoangnam2310/lectureflow/internal/logger"
)

type implSummarizer struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	charBudget int
	logger     logger.Logger
}

// New creates a Summarizer that rotates through the supplied Gemini API keys.
func New(apiKeys []string, cfg *config.Config, log logger.Logger) Summarizer {
	return &implSummarizer{
		apiKeys:    apiKeys,
		model:      cfg.Gemini.Model,
		charBudget: cfg.Summary.CharBudget,
		logger:     log,
	}
}
