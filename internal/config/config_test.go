package config

import (
	"testing"
	"time"

	"github.com/dgallion1/listtree/internal/outline"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LISTTREE_API_KEY", "INDENT_WIDTH", "LIST_MARKER", "WORKER_COUNT", "JOB_TTL"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected port 8090, got %q", cfg.Port)
	}
	if cfg.APIKey != "" {
		t.Errorf("expected empty api key, got %q", cfg.APIKey)
	}
	if cfg.Outline() != outline.DefaultOptions() {
		t.Errorf("expected default outline options, got %+v", cfg.Outline())
	}
	if cfg.WorkerCount != 4 || cfg.JobTTL != time.Hour {
		t.Errorf("unexpected pool defaults: workers=%d ttl=%s", cfg.WorkerCount, cfg.JobTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("INDENT_WIDTH", "2")
	t.Setenv("LIST_MARKER", "*")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("JOB_TTL", "90s")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")

	cfg := Load()
	if cfg.IndentWidth != 2 || cfg.ListMarker != "*" {
		t.Errorf("expected indent 2 and marker *, got %d %q", cfg.IndentWidth, cfg.ListMarker)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected non-positive worker count to reset to 4, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 90*time.Second {
		t.Errorf("expected ttl 90s, got %s", cfg.JobTTL)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
	if cfg.MaxUploadBytes != 10485760 {
		t.Errorf("expected default upload limit for bad value, got %d", cfg.MaxUploadBytes)
	}
}

func TestValidateOutline(t *testing.T) {
	tests := []struct {
		opts    outline.Options
		wantErr bool
	}{
		{outline.Options{IndentWidth: 1, Marker: "-"}, false},
		{outline.Options{IndentWidth: 4, Marker: "->"}, false},
		{outline.Options{IndentWidth: 0, Marker: "-"}, true},
		{outline.Options{IndentWidth: 2, Marker: ""}, true},
		{outline.Options{IndentWidth: 2, Marker: "- "}, true},
	}
	for _, tt := range tests {
		err := ValidateOutline(tt.opts)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateOutline(%+v) error = %v, wantErr %v", tt.opts, err, tt.wantErr)
		}
	}
}
