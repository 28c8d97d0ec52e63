package quizgen

import (
	"context"

	"github.com/lehoangnam2310/lectureflow/pkg/quiz"
)

// Params controls quiz generation. Zero values fall back to the configured
// defaults (5 questions, medium difficulty, mcq).
type Params struct {
	NumQuestions int
	Difficulty   string
	QuestionType string
}

// Generator turns transcript text into a validated quiz via the remote
// generation collaborator. The truncated return reports that the transcript
// was cut to fit the prompt budget.
type Generator interface {
	Generate(ctx context.Context, transcript string, p Params) (q *quiz.Quiz, truncated bool, err error)
}
