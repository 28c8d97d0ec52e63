package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	OpenAI      OpenAIConfig      `yaml:"openai"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Summary     SummaryConfig     `yaml:"summary"`
	Quiz        QuizConfig        `yaml:"quiz"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

type OpenAIConfig struct {
	WhisperModel string `yaml:"whisper_model"`
	QuizModel    string `yaml:"quiz_model"`
	MaxAudioMB   int    `yaml:"max_audio_mb"`
}

type GeminiConfig struct {
	Model string `yaml:"model"`
}

type SummaryConfig struct {
	CharBudget int `yaml:"char_budget"`
}

type QuizConfig struct {
	CharBudget        int    `yaml:"char_budget"`
	DefaultQuestions  int    `yaml:"default_questions"`
	DefaultDifficulty string `yaml:"default_difficulty"`
	DefaultType       string `yaml:"default_type"`
}

type PathsConfig struct {
	Upload string `yaml:"upload"`
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
	Watch  string `yaml:"watch"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Keys holds API credentials loaded from the environment, never from YAML.
type Keys struct {
	OpenAI string
	Gemini []string
}

// Load reads and validates the YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadKeys reads API credentials from the environment. GEMINI_API_KEYS is a
// comma-separated list so quota-limited keys can be rotated.
func LoadKeys() (Keys, error) {
	keys := Keys{
		OpenAI: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
	}

	for _, k := range strings.Split(os.Getenv("GEMINI_API_KEYS"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys.Gemini = append(keys.Gemini, k)
		}
	}

	if keys.OpenAI == "" {
		return keys, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if len(keys.Gemini) == 0 {
		return keys, fmt.Errorf("GEMINI_API_KEYS is not set")
	}

	return keys, nil
}

func (c *Config) Validate() error {
	if c.Paths.Upload == "" {
		return fmt.Errorf("paths.upload is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 100
	}
	if c.OpenAI.WhisperModel == "" {
		c.OpenAI.WhisperModel = "whisper-1"
	}
	if c.OpenAI.QuizModel == "" {
		c.OpenAI.QuizModel = "gpt-4"
	}
	if c.OpenAI.MaxAudioMB == 0 {
		c.OpenAI.MaxAudioMB = 25
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Summary.CharBudget == 0 {
		c.Summary.CharBudget = 12000
	}
	if c.Quiz.CharBudget == 0 {
		c.Quiz.CharBudget = 10000
	}
	if c.Quiz.DefaultQuestions == 0 {
		c.Quiz.DefaultQuestions = 5
	}
	if c.Quiz.DefaultDifficulty == "" {
		c.Quiz.DefaultDifficulty = "medium"
	}
	if c.Quiz.DefaultType == "" {
		c.Quiz.DefaultType = "mcq"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Watch == "" {
		c.Paths.Watch = "data/input"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}

// MaxUploadBytes returns the upload body limit in bytes.
func (c *Config) MaxUploadBytes() int {
	return c.Server.MaxUploadMB * 1024 * 1024
}

// MaxAudioBytes returns the transcription payload limit in bytes.
func (c *Config) MaxAudioBytes() int64 {
	return int64(c.OpenAI.MaxAudioMB) * 1024 * 1024
}
