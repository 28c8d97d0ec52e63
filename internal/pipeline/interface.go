package pipeline

import (
	"context"

	"github.com/lehoangnam2310/lectureflow/internal/transcriber"
	"github.com/lehoangnam2310/lectureflow/pkg/quiz"
)

// Options are the per-run generation parameters. Zero values fall back to
// the configured defaults.
type Options struct {
	NumQuestions  int
	Difficulty    string
	QuestionType  string
	SummaryLength string
}

// Artifacts are the timestamped output files written by a run.
type Artifacts struct {
	Transcript string `json:"transcript,omitempty"`
	Quiz       string `json:"quiz,omitempty"`
}

// Result is the assembled outcome of a full pipeline run. Summarization and
// quiz generation report their failures independently so one stage's error
// never discards the other's output.
type Result struct {
	RunID            string
	Transcript       *transcriber.Transcript
	Summary          string
	KeyConcepts      string
	SummaryTruncated bool
	SummaryErr       error
	Quiz             *quiz.Quiz
	QuizTruncated    bool
	QuizErr          error
	Files            Artifacts
	Warnings         []string
}

// TranscribeResult is the outcome of the transcription-only path.
type TranscribeResult struct {
	Transcript *transcriber.Transcript
	File       string
	Warnings   []string
}

// QuizResult is the outcome of the quiz-only path.
type QuizResult struct {
	Quiz      *quiz.Quiz
	Truncated bool
	File      string
	Warnings  []string
}

// Orchestrator sequences extract -> transcribe -> (summarize, generate quiz)
// -> assemble for one video. Runs are synchronous: no queue, no retries,
// no cancellation once a remote call is issued.
type Orchestrator interface {
	ProcessAll(ctx context.Context, videoPath string, opts Options) (*Result, error)
	Transcribe(ctx context.Context, videoPath string) (*TranscribeResult, error)
	GenerateQuiz(ctx context.Context, transcript string, opts Options) (*QuizResult, error)
}
