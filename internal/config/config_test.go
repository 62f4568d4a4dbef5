package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for a missing file")
	}
	if cfg.Converter.Binary != "soffice" {
		t.Fatalf("expected default converter binary, got %q", cfg.Converter.Binary)
	}
	if cfg.Converter.Ghostscript != "gs" {
		t.Fatalf("expected default ghostscript binary, got %q", cfg.Converter.Ghostscript)
	}
	if cfg.Validator.Binary != "verapdf" {
		t.Fatalf("expected default validator binary, got %q", cfg.Validator.Binary)
	}
	if cfg.Converter.PDFAVersion != 1 {
		t.Fatalf("expected default pdfa version 1, got %d", cfg.Converter.PDFAVersion)
	}
	if cfg.Render.Strict {
		t.Fatal("expected lenient rendering by default")
	}
	if cfg.ConverterTimeout() != 120*time.Second {
		t.Fatalf("expected 120s converter timeout, got %s", cfg.ConverterTimeout())
	}
	if cfg.ValidatorTimeout() != 90*time.Second {
		t.Fatalf("expected 90s validator timeout, got %s", cfg.ValidatorTimeout())
	}
	if strings.HasPrefix(cfg.Paths.TemplateDir, "~") {
		t.Fatalf("expected expanded template dir, got %q", cfg.Paths.TemplateDir)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `[paths]
template_dir = "` + filepath.Join(dir, "templates") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
staging_dir = "` + filepath.Join(dir, "staging") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[converter]
binary = "/opt/libreoffice/soffice"
timeout = 30
pdfa_version = 2

[validator]
binary = "/opt/verapdf/verapdf"

[render]
strict = true

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, loadedPath, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if loadedPath != path {
		t.Fatalf("expected path %q, got %q", path, loadedPath)
	}
	if cfg.Converter.Binary != "/opt/libreoffice/soffice" {
		t.Fatalf("unexpected converter binary: %q", cfg.Converter.Binary)
	}
	if cfg.Converter.Timeout != 30 {
		t.Fatalf("unexpected converter timeout: %d", cfg.Converter.Timeout)
	}
	if cfg.Converter.PDFAVersion != 2 {
		t.Fatalf("unexpected pdfa version: %d", cfg.Converter.PDFAVersion)
	}
	if !cfg.Render.Strict {
		t.Fatal("expected strict rendering enabled")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsBadPDFAVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[converter]\npdfa_version = 9\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for pdfa_version 9")
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestTemplatePath(t *testing.T) {
	cfg := Default()
	cfg.Paths.TemplateDir = "/srv/templates"
	if got := cfg.TemplatePath("cost-sheet"); got != "/srv/templates/cost-sheet.docx" {
		t.Fatalf("TemplatePath = %q", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.TemplateDir = filepath.Join(dir, "templates")
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.StagingDir = filepath.Join(dir, "staging")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, sub := range []string{"out", "staging", "logs"} {
		if info, err := os.Stat(filepath.Join(dir, sub)); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s, err=%v", sub, err)
		}
	}
}

func TestCreateSampleParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("expected sample config to load, got %v", err)
	}
}
