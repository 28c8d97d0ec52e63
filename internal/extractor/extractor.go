package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MediaError marks input that cannot yield audio: unreadable container or
// a video with no audio track.
type MediaError struct {
	Path string
	Err  error
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media %s: %v", e.Path, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// Extract converts the video's audio track to 16kHz mono WAV in the temp
// directory. This format is optimal for Whisper processing.
func (e *implExtractor) Extract(ctx context.Context, videoPath string) (string, error) {
	if err := e.probeAudioStream(ctx, videoPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.cfg.Paths.Temp, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(e.cfg.Paths.Temp, base+"_audio.wav")

	e.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// FFmpeg arguments for audio extraction
	// -vn: No video (audio only)
	// -ar 16000: Sample rate 16kHz (optimal for Whisper)
	// -ac 1: Mono channel (Whisper works best with mono)
	// -c:a pcm_s16le: PCM 16-bit little-endian format (uncompressed)
	// -y: Overwrite output file if exists
	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}

	if _, err := e.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", &MediaError{Path: videoPath, Err: fmt.Errorf("ffmpeg extract audio: %w", err)}
	}

	e.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}

// probeAudioStream checks that the container opens and carries at least one
// audio stream before spending time on extraction.
func (e *implExtractor) probeAudioStream(ctx context.Context, videoPath string) error {
	args := []string{
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=codec_type",
		"-of", "csv=p=0",
		videoPath,
	}

	out, err := e.executor.Execute(ctx, "ffprobe", args...)
	if err != nil {
		return &MediaError{Path: videoPath, Err: fmt.Errorf("ffprobe: %w", err)}
	}

	if strings.TrimSpace(out) == "" {
		return &MediaError{Path: videoPath, Err: fmt.Errorf("no audio track")}
	}

	return nil
}
