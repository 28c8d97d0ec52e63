package summarizer

import "context"

// Summarizer produces a prose summary and key concepts from transcript text.
// The truncated return reports that the transcript was cut to fit the prompt
// budget; it is a warning, never an error.
type Summarizer interface {
	Summarize(ctx context.Context, transcript, length string) (summary string, truncated bool, err error)
	ExtractKeyConcepts(ctx context.Context, transcript string, numConcepts int) (string, error)
	WriteDocx(title, summary, outputPath string) error
}
