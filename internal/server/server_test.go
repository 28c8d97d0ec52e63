package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehoangnam2310/lectureflow/internal/config"
	"github.com/lehoangnam2310/lectureflow/internal/logger"
	"github.com/lehoangnam2310/lectureflow/internal/pipeline"
	"github.com/lehoangnam2310/lectureflow/internal/quizgen"
	"github.com/lehoangnam2310/lectureflow/internal/transcriber"
	"github.com/lehoangnam2310/lectureflow/pkg/quiz"
)

type fakeOrchestrator struct {
	processRes    *pipeline.Result
	processErr    error
	transcribeRes *pipeline.TranscribeResult
	transcribeErr error
	quizRes       *pipeline.QuizResult
	quizErr       error
}

func (f *fakeOrchestrator) ProcessAll(ctx context.Context, videoPath string, opts pipeline.Options) (*pipeline.Result, error) {
	return f.processRes, f.processErr
}

func (f *fakeOrchestrator) Transcribe(ctx context.Context, videoPath string) (*pipeline.TranscribeResult, error) {
	return f.transcribeRes, f.transcribeErr
}

func (f *fakeOrchestrator) GenerateQuiz(ctx context.Context, transcript string, opts pipeline.Options) (*pipeline.QuizResult, error) {
	return f.quizRes, f.quizErr
}

type fakeSummarizer struct {
	summary   string
	truncated bool
	err       error
	concepts  string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, transcript, length string) (string, bool, error) {
	return f.summary, f.truncated, f.err
}

func (f *fakeSummarizer) ExtractKeyConcepts(ctx context.Context, transcript string, n int) (string, error) {
	return f.concepts, nil
}

func (f *fakeSummarizer) WriteDocx(title, summary, outputPath string) error {
	return nil
}

func sampleQuiz() *quiz.Quiz {
	return &quiz.Quiz{
		Title: "Cell Biology",
		Questions: []quiz.Question{
			{
				Number:        1,
				Text:          "What is the powerhouse of the cell?",
				Type:          quiz.TypeMCQ,
				Options:       map[string]string{"A": "Mitochondria", "B": "Nucleus"},
				CorrectAnswer: "A",
			},
		},
	}
}

func newTestServer(t *testing.T, orch pipeline.Orchestrator, summ *fakeSummarizer) *Server {
	t.Helper()
	cfg := &config.Config{
		Paths: config.PathsConfig{
			Upload: t.TempDir(),
			Output: t.TempDir(),
			Temp:   t.TempDir(),
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if summ == nil {
		summ = &fakeSummarizer{summary: "A summary.", concepts: "1. Mitochondria"}
	}
	return New(cfg, logger.New("error", "text"), orch, summ)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, data)
	}
	return body
}

func multipartVideo(t *testing.T, field, filename string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("fake video bytes")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf, w.FormDataContentType()
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeOrchestrator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
	if _, ok := body["timestamp"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestUpload(t *testing.T) {
	s := newTestServer(t, &fakeOrchestrator{}, nil)

	buf, contentType := multipartVideo(t, "video", "intro lecture.mp4")
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	filename, _ := body["filename"].(string)
	if !strings.HasSuffix(filename, "_intro_lecture.mp4") {
		t.Errorf("filename = %q, want timestamped sanitized name", filename)
	}

	path, _ := body["filepath"].(string)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("uploaded file not saved: %v", err)
	}
}

func TestUploadRejectsBadExtension(t *testing.T) {
	s := newTestServer(t, &fakeOrchestrator{}, nil)

	buf, contentType := multipartVideo(t, "video", "notes.txt")
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUploadMissingFile(t *testing.T) {
	s := newTestServer(t, &fakeOrchestrator{}, nil)

	buf, contentType := multipartVideo(t, "document", "lecture.mp4")
	req := httptest.NewRequest(http.MethodPost, "/upload", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	s := newTestServer(t, &fakeOrchestrator{}, nil)

	payload := `{"filepath": "/no/such/video.mp4"}`
	req := httptest.NewRequest(http.MethodPost, "/transcribe", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestTranscribe(t *testing.T) {
	videoPath := filepath.Join(t.TempDir(), "lecture.mp4")
	if err := os.WriteFile(videoPath, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	orch := &fakeOrchestrator{
		transcribeRes: &pipeline.TranscribeResult{
			Transcript: &transcriber.Transcript{
				Text:     "The mitochondria is the powerhouse of the cell.",
				Segments: []transcriber.Segment{{Start: 0, End: 4.5, Text: "The mitochondria is the powerhouse of the cell."}},
			},
			File: "outputs/transcript_123.txt",
		},
	}
	s := newTestServer(t, orch, nil)

	payload := fmt.Sprintf(`{"filepath": %q}`, videoPath)
	req := httptest.NewRequest(http.MethodPost, "/transcribe", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if !strings.Contains(body["transcript"].(string), "mitochondria") {
		t.Errorf("transcript = %v", body["transcript"])
	}
	if body["transcript_file"] != "outputs/transcript_123.txt" {
		t.Errorf("transcript_file = %v", body["transcript_file"])
	}
}

func TestSummarizeMissingTranscript(t *testing.T) {
	s := newTestServer(t, &fakeOrchestrator{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(`{"length": "short"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSummarize(t *testing.T) {
	summ := &fakeSummarizer{summary: "A short summary.", concepts: "1. Cells"}
	s := newTestServer(t, &fakeOrchestrator{}, summ)

	payload := `{"transcript": "cells are the unit of life", "length": "short"}`
	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["summary"] != "A short summary." {
		t.Errorf("summary = %v", body["summary"])
	}
	if body["key_concepts"] != "1. Cells" {
		t.Errorf("key_concepts = %v", body["key_concepts"])
	}
}

func TestSummarizeTruncationWarning(t *testing.T) {
	summ := &fakeSummarizer{summary: "A summary.", truncated: true}
	s := newTestServer(t, &fakeOrchestrator{}, summ)

	payload := `{"transcript": "long transcript"}`
	req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}

	body := decodeBody(t, resp)
	if _, ok := body["warning"]; !ok {
		t.Error("truncation warning missing from response")
	}
}

func TestGenerateQuiz(t *testing.T) {
	orch := &fakeOrchestrator{
		quizRes: &pipeline.QuizResult{Quiz: sampleQuiz(), File: "outputs/quiz_123.json"},
	}
	s := newTestServer(t, orch, nil)

	payload := `{"transcript": "cells", "num_questions": 3, "difficulty": "easy"}`
	req := httptest.NewRequest(http.MethodPost, "/generate-quiz", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	quizBody, ok := body["quiz"].(map[string]interface{})
	if !ok {
		t.Fatalf("quiz field = %v", body["quiz"])
	}
	if quizBody["quiz_title"] != "Cell Biology" {
		t.Errorf("quiz_title = %v", quizBody["quiz_title"])
	}
}

func TestGenerateQuizInvalidParams(t *testing.T) {
	s := newTestServer(t, &fakeOrchestrator{}, nil)

	payload := `{"transcript": "cells", "difficulty": "impossible"}`
	req := httptest.NewRequest(http.MethodPost, "/generate-quiz", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGenerateQuizParseErrorCarriesRaw(t *testing.T) {
	orch := &fakeOrchestrator{
		quizErr: &pipeline.CollaboratorError{
			Stage: "generate-quiz",
			Err:   &quizgen.ParseError{Raw: "I am not JSON", Err: fmt.Errorf("invalid character 'I'")},
		},
	}
	s := newTestServer(t, orch, nil)

	payload := `{"transcript": "cells"}`
	req := httptest.NewRequest(http.MethodPost, "/generate-quiz", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["raw_response"] != "I am not JSON" {
		t.Errorf("raw_response = %v", body["raw_response"])
	}
}

func TestProcessAllPartialFailure(t *testing.T) {
	orch := &fakeOrchestrator{
		processRes: &pipeline.Result{
			RunID:      "run-1",
			Transcript: &transcriber.Transcript{Text: "The mitochondria is the powerhouse of the cell."},
			Summary:    "A summary.",
			QuizErr: &pipeline.CollaboratorError{
				Stage: "generate-quiz",
				Err:   &quizgen.ParseError{Raw: "oops", Err: fmt.Errorf("bad json")},
			},
			Files: pipeline.Artifacts{Transcript: "outputs/transcript_1.txt"},
		},
	}
	s := newTestServer(t, orch, nil)

	buf, contentType := multipartVideo(t, "video", "lecture.mp4")
	req := httptest.NewRequest(http.MethodPost, "/process-all", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 with partial results", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["summary"] != "A summary." {
		t.Errorf("summary = %v", body["summary"])
	}
	if _, ok := body["quiz_error"]; !ok {
		t.Error("quiz_error marker missing")
	}
}

func TestProcessAllRejectsBadExtension(t *testing.T) {
	s := newTestServer(t, &fakeOrchestrator{}, nil)

	buf, contentType := multipartVideo(t, "video", "notes.txt")
	req := httptest.NewRequest(http.MethodPost, "/process-all", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestProcessAllInvalidNumQuestions(t *testing.T) {
	s := newTestServer(t, &fakeOrchestrator{}, nil)

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("video", "lecture.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("fake video")); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteField("num_questions", "zero"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/process-all", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lecture.mp4", "lecture.mp4"},
		{"my lecture.mp4", "my_lecture.mp4"},
		{"../../etc/passwd.mp4", "passwd.mp4"},
		{"weird$chars!.mp4", "weirdchars.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := sanitizeFilename(tt.in); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
