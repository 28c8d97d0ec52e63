package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lehoangnam2310/lectureflow/internal/quizgen"
	"github.com/lehoangnam2310/lectureflow/internal/transcriber"
)

// ProcessAll runs the full pipeline for one video. Extraction and
// transcription failures abort the run; summarization and quiz generation
// run concurrently on the finished transcript and fail independently, so
// the caller always gets whatever a single expensive transcription paid for.
func (o *implOrchestrator) ProcessAll(ctx context.Context, videoPath string, opts Options) (*Result, error) {
	runID := uuid.NewString()
	startTime := time.Now()

	o.logger.Info(ctx, "[%s] Starting pipeline run: %s", runID, videoPath)

	transcript, err := o.extractAndTranscribe(ctx, runID, videoPath)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:      runID,
		Transcript: transcript,
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		summary, truncated, err := o.summarizer.Summarize(ctx, transcript.Text, opts.SummaryLength)
		res.SummaryTruncated = truncated
		if err != nil {
			res.SummaryErr = &CollaboratorError{Stage: "summarize", Err: err}
			return
		}
		res.Summary = summary

		concepts, err := o.summarizer.ExtractKeyConcepts(ctx, transcript.Text, 5)
		if err != nil {
			// Summary alone is still useful; record and move on
			res.Warnings = append(res.Warnings, fmt.Sprintf("key concepts extraction failed: %v", err))
			return
		}
		res.KeyConcepts = concepts
	}()

	go func() {
		defer wg.Done()
		q, truncated, err := o.quizzer.Generate(ctx, transcript.Text, quizgenParams(opts))
		res.QuizTruncated = truncated
		if err != nil {
			res.QuizErr = &CollaboratorError{Stage: "generate-quiz", Err: err}
			return
		}
		res.Quiz = q
	}()

	wg.Wait()

	if res.SummaryErr != nil {
		o.logger.Error(ctx, "[%s] Summarization failed: %v", runID, res.SummaryErr)
	}
	if res.QuizErr != nil {
		o.logger.Error(ctx, "[%s] Quiz generation failed: %v", runID, res.QuizErr)
	}

	o.assemble(ctx, res)

	o.logger.Info(ctx, "[%s] Pipeline run completed in %s", runID, time.Since(startTime))
	return res, nil
}

// Transcribe runs only the extract and transcribe stages and writes the
// transcript artifact.
func (o *implOrchestrator) Transcribe(ctx context.Context, videoPath string) (*TranscribeResult, error) {
	runID := uuid.NewString()

	transcript, err := o.extractAndTranscribe(ctx, runID, videoPath)
	if err != nil {
		return nil, err
	}

	res := &TranscribeResult{Transcript: transcript}

	path, err := o.writeTranscript(transcript.Text, time.Now().Unix())
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("write transcript file: %v", err))
	} else {
		res.File = path
	}

	return res, nil
}

// GenerateQuiz runs only the quiz stage on an existing transcript and
// writes the quiz artifact.
func (o *implOrchestrator) GenerateQuiz(ctx context.Context, transcript string, opts Options) (*QuizResult, error) {
	q, truncated, err := o.quizzer.Generate(ctx, transcript, quizgenParams(opts))
	if err != nil {
		return nil, &CollaboratorError{Stage: "generate-quiz", Err: err}
	}

	res := &QuizResult{Quiz: q, Truncated: truncated}

	path, err := o.writeQuiz(q, time.Now().Unix())
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("write quiz file: %v", err))
	} else {
		res.File = path
	}

	return res, nil
}

// extractAndTranscribe covers the fatal leading stages. The audio temp file
// is deleted once transcription returns, success or not.
func (o *implOrchestrator) extractAndTranscribe(ctx context.Context, runID, videoPath string) (*transcriber.Transcript, error) {
	audioPath, err := o.extractor.Extract(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	defer o.cleanupTempFile(ctx, audioPath)

	transcript, err := o.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	o.logger.Info(ctx, "[%s] Transcript ready: %d chars", runID, len(transcript.Text))
	return transcript, nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (o *implOrchestrator) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		o.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		o.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}

func quizgenParams(opts Options) quizgen.Params {
	return quizgen.Params{
		NumQuestions: opts.NumQuestions,
		Difficulty:   opts.Difficulty,
		QuestionType: opts.QuestionType,
	}
}
