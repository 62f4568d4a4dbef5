package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"docforge/internal/services"
)

// Normalizer rewrites a PDF into an archival PDF/A artifact.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath, outputPath string, version int) error
}

// GhostscriptOption configures the Ghostscript normalizer.
type GhostscriptOption func(*Ghostscript)

// WithGhostscriptBinary overrides the default gs binary.
func WithGhostscriptBinary(binary string) GhostscriptOption {
	return func(g *Ghostscript) {
		if binary != "" {
			g.binary = binary
		}
	}
}

// Ghostscript wraps the gs pdfwrite device for PDF/A output.
type Ghostscript struct {
	binary string
}

// NewGhostscript constructs a normalizer using defaults.
func NewGhostscript(opts ...GhostscriptOption) *Ghostscript {
	gs := &Ghostscript{binary: "gs"}
	for _, opt := range opts {
		opt(gs)
	}
	return gs
}

// Normalize rewrites inputPath as a PDF/A document at outputPath. The version
// selects the PDF/A part (1, 2, or 3).
func (g *Ghostscript) Normalize(ctx context.Context, inputPath, outputPath string, version int) error {
	if version < 1 || version > 3 {
		return fmt.Errorf("%w: pdfa version must be 1, 2, or 3, got %d", services.ErrConfiguration, version)
	}
	if inputPath == "" || outputPath == "" {
		return errors.New("input and output paths required")
	}

	args := []string{
		fmt.Sprintf("-dPDFA=%d", version),
		"-dBATCH",
		"-dNOPAUSE",
		"-dPDFACompatibilityPolicy=1",
		"-dPDFSETTINGS=/prepress",
		"-dAutoRotatePages=/None",
		"-sDEVICE=pdfwrite",
		"-sOutputFile=" + outputPath,
		inputPath,
	}

	var output bytes.Buffer
	cmd := commandContext(ctx, g.binary, args...)
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return services.Wrap(services.ErrTimeout, "normalizer", "normalize", "archival rewrite did not finish in time", ctx.Err())
		}
		return services.Wrap(services.ErrConversion, "normalizer", "normalize", strings.TrimSpace(output.String()), err)
	}

	if ok, err := nonEmptyFile(outputPath); err != nil {
		return err
	} else if !ok {
		return services.Wrap(services.ErrConversion, "normalizer", "normalize",
			"gs exited cleanly but produced no output: "+strings.TrimSpace(output.String()), nil)
	}
	return nil
}

var _ Normalizer = (*Ghostscript)(nil)
