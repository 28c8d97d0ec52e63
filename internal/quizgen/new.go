package quizgen

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/lehoangnam2310/lectureflow/internal/config"
	"github.com/lehoangnam2310/lectureflow/internal/logger"
)

// chatClient is the slice of the OpenAI client the generator needs.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type implGenerator struct {
	client     chatClient
	model      string
	charBudget int
	defaults   config.QuizConfig
	logger     logger.Logger
}

// New creates a Generator backed by the OpenAI chat completions API.
func New(apiKey string, cfg *config.Config, log logger.Logger) Generator {
	return &implGenerator{
		client:     openai.NewClient(apiKey),
		model:      cfg.OpenAI.QuizModel,
		charBudget: cfg.Quiz.CharBudget,
		defaults:   cfg.Quiz,
		logger:     log,
	}
}

func newWithClient(client chatClient, cfg *config.Config, log logger.Logger) Generator {
	return &implGenerator{
		client:     client,
		model:      cfg.OpenAI.QuizModel,
		charBudget: cfg.Quiz.CharBudget,
		defaults:   cfg.Quiz,
		logger:     log,
	}
}
