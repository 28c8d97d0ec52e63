package transcriber

import "context"

// Transcript is the text plus time-aligned segments derived from one audio
// track. It is immutable once produced.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// Segment is a time-aligned slice of the transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcriber converts an extracted audio file into a Transcript via the
// remote speech-to-text collaborator. No retries: transient failures
// surface to the caller.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Transcript, error)
}
