package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lehoangnam2310/lectureflow/internal/extractor"
	"github.com/lehoangnam2310/lectureflow/internal/pipeline"
	"github.com/lehoangnam2310/lectureflow/internal/quizgen"
	"github.com/lehoangnam2310/lectureflow/internal/transcriber"
)

var allowedExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

type transcribeRequest struct {
	Filepath string `json:"filepath" validate:"required"`
}

type summarizeRequest struct {
	Transcript string `json:"transcript" validate:"required"`
	Length     string `json:"length" validate:"omitempty,oneof=short medium long"`
}

type generateQuizRequest struct {
	Transcript   string `json:"transcript" validate:"required"`
	NumQuestions int    `json:"num_questions" validate:"omitempty,min=1,max=20"`
	Difficulty   string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	QuestionType string `json:"question_type" validate:"omitempty,oneof=mcq true_false short_answer mixed"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	filename, path, err := s.saveUpload(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Video uploaded successfully",
		"filename": filename,
		"filepath": path,
	})
}

func (s *Server) handleTranscribe(c *fiber.Ctx) error {
	var req transcribeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, "no filepath provided")
	}

	if _, err := os.Stat(req.Filepath); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Video file not found",
		})
	}

	res, err := s.orch.Transcribe(c.Context(), req.Filepath)
	if err != nil {
		return s.stageError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":         "Transcription completed",
		"transcript":      res.Transcript.Text,
		"segments":        res.Transcript.Segments,
		"transcript_file": res.File,
	})
}

func (s *Server) handleSummarize(c *fiber.Ctx) error {
	var req summarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, "no transcript provided")
	}

	summary, truncated, err := s.summ.Summarize(c.Context(), req.Transcript, req.Length)
	if err != nil {
		return s.stageError(c, err)
	}

	resp := fiber.Map{
		"message": "Summary generated successfully",
		"summary": summary,
	}
	if truncated {
		resp["warning"] = "transcript was truncated to fit the summarization budget"
	}

	concepts, err := s.summ.ExtractKeyConcepts(c.Context(), req.Transcript, 5)
	if err != nil {
		s.logger.Warn(c.Context(), "Key concepts extraction failed: %v", err)
		resp["key_concepts"] = ""
	} else {
		resp["key_concepts"] = concepts
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (s *Server) handleGenerateQuiz(c *fiber.Ctx) error {
	var req generateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, "no transcript provided or invalid parameters")
	}

	res, err := s.orch.GenerateQuiz(c.Context(), req.Transcript, pipeline.Options{
		NumQuestions: req.NumQuestions,
		Difficulty:   req.Difficulty,
		QuestionType: req.QuestionType,
	})
	if err != nil {
		return s.stageError(c, err)
	}

	resp := fiber.Map{
		"message":   "Quiz generated successfully",
		"quiz":      res.Quiz,
		"quiz_file": res.File,
	}
	if res.Truncated {
		resp["warning"] = "transcript was truncated to fit the quiz budget"
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func (s *Server) handleProcessAll(c *fiber.Ctx) error {
	_, videoPath, err := s.saveUpload(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	opts := pipeline.Options{
		Difficulty:    c.FormValue("difficulty"),
		QuestionType:  c.FormValue("question_type"),
		SummaryLength: c.FormValue("summary_length"),
	}
	if v := c.FormValue("num_questions"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return badRequest(c, "num_questions must be a positive integer")
		}
		opts.NumQuestions = n
	}

	res, err := s.orch.ProcessAll(c.Context(), videoPath, opts)
	if err != nil {
		return s.stageError(c, err)
	}

	resp := fiber.Map{
		"message":      "Processing completed successfully",
		"transcript":   res.Transcript.Text,
		"summary":      res.Summary,
		"key_concepts": res.KeyConcepts,
		"quiz":         res.Quiz,
		"files": fiber.Map{
			"transcript": res.Files.Transcript,
			"quiz":       res.Files.Quiz,
		},
	}
	if res.SummaryErr != nil {
		resp["summary_error"] = res.SummaryErr.Error()
	}
	if res.QuizErr != nil {
		resp["quiz_error"] = res.QuizErr.Error()
	}
	if len(res.Warnings) > 0 {
		resp["warnings"] = res.Warnings
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// saveUpload validates and stores the multipart video file. Rejections
// happen here, before any remote call is attempted.
func (s *Server) saveUpload(c *fiber.Ctx) (string, string, error) {
	file, err := c.FormFile("video")
	if err != nil {
		return "", "", fmt.Errorf("no video file provided")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", "", fmt.Errorf("file type %q not allowed, allowed types: mp4, avi, mov, mkv, webm", ext)
	}

	if err := os.MkdirAll(s.cfg.Paths.Upload, 0755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), sanitizeFilename(file.Filename))
	path := filepath.Join(s.cfg.Paths.Upload, filename)

	if err := c.SaveFile(file, path); err != nil {
		return "", "", fmt.Errorf("save uploaded file: %w", err)
	}

	return filename, path, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return unsafeFilenameChars.ReplaceAllString(name, "")
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

// stageError maps pipeline failures to the 400/404/500 split: bad media and
// oversized payloads are user-correctable, everything else is a server-side
// collaborator problem.
func (s *Server) stageError(c *fiber.Ctx, err error) error {
	s.logger.Error(c.Context(), "Pipeline stage failed: %v", err)

	status := fiber.StatusInternalServerError

	var mediaErr *extractor.MediaError
	var tooLarge *transcriber.PayloadTooLargeError
	if errors.As(err, &mediaErr) || errors.As(err, &tooLarge) {
		status = fiber.StatusBadRequest
	}

	resp := fiber.Map{"error": err.Error()}

	var parseErr *quizgen.ParseError
	if errors.As(err, &parseErr) && parseErr.Raw != "" {
		resp["raw_response"] = parseErr.Raw
	}

	return c.Status(status).JSON(resp)
}
