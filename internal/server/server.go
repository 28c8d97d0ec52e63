package server

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lehoangnam2310/lectureflow/internal/config"
	"github.com/lehoangnam2310/lectureflow/internal/logger"
	"github.com/lehoangnam2310/lectureflow/internal/pipeline"
	"github.com/lehoangnam2310/lectureflow/internal/summarizer"
)

// Server exposes the pipeline over HTTP.
type Server struct {
	cfg      *config.Config
	logger   logger.Logger
	orch     pipeline.Orchestrator
	summ     summarizer.Summarizer
	validate *validator.Validate
	app      *fiber.App
}

// New wires the routes and middleware.
func New(cfg *config.Config, log logger.Logger, orch pipeline.Orchestrator, summ summarizer.Summarizer) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   log,
		orch:     orch,
		summ:     summ,
		validate: validator.New(),
	}

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.MaxUploadBytes(),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(fiberlogger.New())

	app.Get("/health", s.handleHealth)
	app.Post("/upload", s.handleUpload)
	app.Post("/transcribe", s.handleTranscribe)
	app.Post("/summarize", s.handleSummarize)
	app.Post("/generate-quiz", s.handleGenerateQuiz)
	app.Post("/process-all", s.handleProcessAll)

	s.app = app
	return s
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
