package extractor

import "context"

// Extractor produces a transcription-ready audio track from a video file.
// The caller owns deleting the returned temp file once it is done.
type Extractor interface {
	Extract(ctx context.Context, videoPath string) (string, error)
}
