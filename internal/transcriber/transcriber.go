package transcriber

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

// PayloadTooLargeError rejects audio above the remote service's limit
// before any network round-trip is attempted.
type PayloadTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("audio payload %d bytes exceeds %d byte limit", e.Size, e.Limit)
}

// Transcribe sends the audio file to Whisper and maps the verbose JSON
// response to a Transcript with time-aligned segments.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string) (*Transcript, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("stat audio file: %w", err)
	}

	if info.Size() > t.maxBytes {
		return nil, &PayloadTooLargeError{Size: info.Size(), Limit: t.maxBytes}
	}

	t.logger.Info(ctx, "Transcribing audio (%d bytes): %s", info.Size(), audioPath)

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("whisper transcription: %w", err)
	}

	transcript := &Transcript{Text: resp.Text}
	for _, seg := range resp.Segments {
		transcript.Segments = append(transcript.Segments, Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	t.logger.Info(ctx, "Transcription completed: %d chars, %d segments",
		len(transcript.Text), len(transcript.Segments))

	return transcript, nil
}
