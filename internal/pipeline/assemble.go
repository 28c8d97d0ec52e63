package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lehoangnam2310/lectureflow/pkg/quiz"
)

// assemble writes the run's artifacts. Both files share one run timestamp
// so they can be correlated. Write failures are recorded as warnings: the
// in-memory results stay valid either way.
func (o *implOrchestrator) assemble(ctx context.Context, res *Result) {
	ts := time.Now().Unix()

	if res.Transcript != nil {
		path, err := o.writeTranscript(res.Transcript.Text, ts)
		if err != nil {
			o.logger.Warn(ctx, "[%s] Failed to write transcript artifact: %v", res.RunID, err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("write transcript file: %v", err))
		} else {
			res.Files.Transcript = path
		}
	}

	if res.Quiz != nil {
		path, err := o.writeQuiz(res.Quiz, ts)
		if err != nil {
			o.logger.Warn(ctx, "[%s] Failed to write quiz artifact: %v", res.RunID, err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("write quiz file: %v", err))
		} else {
			res.Files.Quiz = path
		}
	}
}

func (o *implOrchestrator) writeTranscript(text string, ts int64) (string, error) {
	if err := os.MkdirAll(o.cfg.Paths.Output, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(o.cfg.Paths.Output, fmt.Sprintf("transcript_%d.txt", ts))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}

	return path, nil
}

// writeQuiz saves the quiz as 2-space indented JSON with non-ASCII text
// kept verbatim.
func (o *implOrchestrator) writeQuiz(q *quiz.Quiz, ts int64) (string, error) {
	if err := os.MkdirAll(o.cfg.Paths.Output, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(o.cfg.Paths.Output, fmt.Sprintf("quiz_%d.json", ts))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create quiz file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(q); err != nil {
		return "", fmt.Errorf("encode quiz: %w", err)
	}

	return path, nil
}
