package transcriber

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/lehoangnam2310/lectureflow/internal/config"
	"github.com/lehoangnam2310/lectureflow/internal/logger"
)

// audioClient is the slice of the OpenAI client the transcriber needs.
type audioClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

type implTranscriber struct {
	client   audioClient
	model    string
	maxBytes int64
	logger   logger.Logger
}

// New creates a Transcriber backed by the OpenAI Whisper API.
func New(apiKey string, cfg *config.Config, log logger.Logger) Transcriber {
	return &implTranscriber{
		client:   openai.NewClient(apiKey),
		model:    cfg.OpenAI.WhisperModel,
		maxBytes: cfg.MaxAudioBytes(),
		logger:   log,
	}
}

func newWithClient(client audioClient, model string, maxBytes int64, log logger.Logger) Transcriber {
	return &implTranscriber{
		client:   client,
		model:    model,
		maxBytes: maxBytes,
		logger:   log,
	}
}
