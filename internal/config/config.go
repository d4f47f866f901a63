package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the service settings, loaded from the environment with an
// optional .env file for local development.
type Config struct {
	Port string `env:"PORT" envDefault:"8090"`

	// Auth. When empty, the API runs without authentication.
	APIKey string `env:"DOCCHUNK_API_KEY"`

	// Worker pool
	WorkerCount  int `env:"WORKER_COUNT" envDefault:"4"`
	MaxQueueSize int `env:"MAX_QUEUE_SIZE" envDefault:"100"`

	// Upload limits
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`

	// Chunking defaults, overridable per request.
	DefaultChunkSize    int `env:"DEFAULT_CHUNK_SIZE" envDefault:"200"`
	DefaultOverlapWidth int `env:"DEFAULT_OVERLAP_WIDTH" envDefault:"1"`

	// TokenEncoding selects a tiktoken encoding, e.g. "cl100k_base".
	// Empty uses the word-count estimate, which needs no encoder data.
	TokenEncoding string `env:"TOKEN_ENCODING"`

	// Job state
	JobTTL time.Duration `env:"JOB_TTL" envDefault:"1h"`

	// PDF
	PDFFallbackPdftotext bool `env:"PDF_FALLBACK_PDFTOTEXT" envDefault:"true"`
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if c.MaxQueueSize <= 0 {
		return fmt.Errorf("MAX_QUEUE_SIZE must be positive, got %d", c.MaxQueueSize)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.DefaultChunkSize <= 0 {
		return fmt.Errorf("DEFAULT_CHUNK_SIZE must be positive, got %d", c.DefaultChunkSize)
	}
	if c.DefaultOverlapWidth < 0 {
		return fmt.Errorf("DEFAULT_OVERLAP_WIDTH must not be negative, got %d", c.DefaultOverlapWidth)
	}
	if c.JobTTL <= 0 {
		return fmt.Errorf("JOB_TTL must be positive, got %s", c.JobTTL)
	}
	return nil
}
