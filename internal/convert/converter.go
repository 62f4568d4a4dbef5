package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"docforge/internal/services"
)

var commandContext = exec.CommandContext

// Format identifies a conversion target.
type Format string

const (
	// FormatDOCX delivers the filled working document as-is.
	FormatDOCX Format = "docx"
	// FormatPDF converts the working document through the external renderer.
	FormatPDF Format = "pdf"
)

// ParseFormat validates a caller-supplied format identifier.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatDOCX:
		return FormatDOCX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: unknown target format %q", services.ErrConfiguration, s)
	}
}

// Client converts a working document to PDF in an output directory, returning
// the path of the produced artifact.
type Client interface {
	Convert(ctx context.Context, inputPath, outputDir string) (string, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default soffice binary.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps LibreOffice in headless mode.
type CLI struct {
	binary string
}

// NewCLI constructs a converter client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "soffice"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Convert runs the document-to-PDF conversion. Every invocation gets a
// private LibreOffice profile directory, so concurrent conversions of
// different working documents never share converter process state.
func (c *CLI) Convert(ctx context.Context, inputPath, outputDir string) (string, error) {
	if inputPath == "" {
		return "", errors.New("input path required")
	}
	if outputDir == "" {
		return "", errors.New("output directory required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	profileDir, err := os.MkdirTemp(outputDir, "soffice-profile-")
	if err != nil {
		return "", fmt.Errorf("create profile directory: %w", err)
	}
	defer os.RemoveAll(profileDir)

	args := []string{
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outputDir,
		"-env:UserInstallation=file://" + profileDir,
		inputPath,
	}

	var output bytes.Buffer
	cmd := commandContext(ctx, c.binary, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", services.Wrap(services.ErrTimeout, "converter", "convert", "renderer did not finish in time", ctx.Err())
		}
		return "", services.Wrap(services.ErrConversion, "converter", "convert", strings.TrimSpace(output.String()), err)
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	artifact := filepath.Join(outputDir, stem+".pdf")
	if ok, err := nonEmptyFile(artifact); err != nil {
		return "", err
	} else if ok {
		return artifact, nil
	}

	// The renderer occasionally writes under a slightly different name; adopt
	// any PDF it produced for this stem.
	if found := findByStem(outputDir, stem); found != "" {
		if err := os.Rename(found, artifact); err != nil {
			return "", fmt.Errorf("adopt converter output: %w", err)
		}
		return artifact, nil
	}

	return "", services.Wrap(services.ErrConversion, "converter", "convert",
		"renderer exited cleanly but produced no output: "+strings.TrimSpace(output.String()), nil)
}

func nonEmptyFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat converter output: %w", err)
	}
	return info.Size() > 0, nil
}

func findByStem(dir, stem string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.Type().IsRegular() && strings.HasPrefix(name, stem) && strings.HasSuffix(name, ".pdf") {
			return filepath.Join(dir, name)
		}
	}
	return ""
}

var _ Client = (*CLI)(nil)
