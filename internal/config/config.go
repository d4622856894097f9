package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/listtree/internal/outline"
)

type Config struct {
	Port string

	// Auth; empty disables bearer-token checks
	APIKey string

	// Outline defaults, overridable per request
	IndentWidth int
	ListMarker  string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Parse latency window
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("LISTTREE_API_KEY"),

		IndentWidth: envInt("INDENT_WIDTH", outline.DefaultIndentWidth),
		ListMarker:  envOr("LIST_MARKER", outline.DefaultMarker),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL:      envDuration("JOB_TTL", 1*time.Hour),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

// Outline returns the configured classification options.
func (c Config) Outline() outline.Options {
	return outline.Options{IndentWidth: c.IndentWidth, Marker: c.ListMarker}
}

func (c Config) Validate() error {
	if err := ValidateOutline(c.Outline()); err != nil {
		return err
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	return nil
}

// ValidateOutline rejects options the classifier cannot use.
func ValidateOutline(o outline.Options) error {
	if o.IndentWidth <= 0 {
		return fmt.Errorf("indent width must be positive, got %d", o.IndentWidth)
	}
	if o.Marker == "" {
		return errors.New("list marker must not be empty")
	}
	if strings.ContainsAny(o.Marker, " \t\r\n") {
		return fmt.Errorf("list marker %q must not contain whitespace", o.Marker)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
