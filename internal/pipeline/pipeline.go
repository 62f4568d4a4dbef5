package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"docforge/internal/config"
	"docforge/internal/convert"
	"docforge/internal/grid"
	"docforge/internal/history"
	"docforge/internal/logging"
	"docforge/internal/numfmt"
	"docforge/internal/render"
	"docforge/internal/services"
	"docforge/internal/token"
	"docforge/internal/validate"
)

// Request describes one document generation run.
type Request struct {
	// Template is the template name, without directory or extension.
	Template string

	// Bindings maps token names to values.
	Bindings token.Bindings

	// Grid describes the dynamic table region, when the template has one.
	Grid *grid.Spec

	// Formats lists the delivery formats. Empty means PDF only.
	Formats []convert.Format

	// Archival rewrites PDF output to the configured PDF/A profile and gates
	// delivery on the external conformance validator.
	Archival bool

	// Strict aborts on unbound tokens instead of resolving them empty.
	Strict bool
}

// Artifact is one delivered output file.
type Artifact struct {
	Format convert.Format
	Path   string
}

// Result reports a completed generation run.
type Result struct {
	RequestID  string
	Artifacts  []Artifact
	Validation *validate.Result
}

// Option configures a Runner.
type Option func(*Runner)

// WithConverter overrides the document converter.
func WithConverter(client convert.Client) Option {
	return func(r *Runner) {
		if client != nil {
			r.converter = client
		}
	}
}

// WithNormalizer overrides the archival normalizer.
func WithNormalizer(normalizer convert.Normalizer) Option {
	return func(r *Runner) {
		if normalizer != nil {
			r.normalizer = normalizer
		}
	}
}

// WithValidator overrides the conformance validator.
func WithValidator(client validate.Client) Option {
	return func(r *Runner) {
		if client != nil {
			r.validator = client
		}
	}
}

// WithStore attaches a history store. Without one, runs are not recorded.
func WithStore(store *history.Store) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// Runner executes generation requests end to end: render, convert, normalize,
// validate, deliver.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	converter  convert.Client
	normalizer convert.Normalizer
	validator  validate.Client
	store      *history.Store
}

// New constructs a Runner from configuration. External tool clients default
// to the configured binaries.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	runner := &Runner{
		cfg:        cfg,
		logger:     logging.WithComponent(logger, "pipeline"),
		converter:  convert.NewCLI(convert.WithBinary(cfg.Converter.Binary)),
		normalizer: convert.NewGhostscript(convert.WithGhostscriptBinary(cfg.Converter.Ghostscript)),
		validator:  validate.NewCLI(validate.WithBinary(cfg.Validator.Binary)),
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// Run executes one generation request. Artifacts land under a request-scoped
// directory inside the configured output directory; staging state is removed
// on the way out, success or not.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Template) == "" {
		return nil, fmt.Errorf("%w: template name required", services.ErrConfiguration)
	}
	formats := req.Formats
	if len(formats) == 0 {
		formats = []convert.Format{convert.FormatPDF}
	}
	if req.Archival && !containsFormat(formats, convert.FormatPDF) {
		return nil, fmt.Errorf("%w: archival output requires the pdf format", services.ErrConfiguration)
	}

	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	log := logging.FromContext(ctx, r.logger)

	templatePath := r.cfg.TemplatePath(req.Template)
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("%w: template %q not found at %s", services.ErrNotFound, req.Template, templatePath)
	}

	if r.store != nil {
		if err := r.store.Begin(ctx, requestID, req.Template, formatNames(formats)); err != nil {
			return nil, fmt.Errorf("record request: %w", err)
		}
	}

	result, err := r.run(ctx, log, requestID, templatePath, req, formats)
	if r.store != nil {
		rec := &history.Record{ID: requestID, Template: req.Template, Status: history.StatusCompleted}
		if err != nil {
			rec.Status = history.StatusFailed
			rec.ErrorMessage = err.Error()
		}
		if result != nil {
			for _, artifact := range result.Artifacts {
				rec.Artifacts = append(rec.Artifacts, history.Artifact{Format: string(artifact.Format), Path: artifact.Path})
			}
			if result.Validation != nil {
				rec.ValidationStatus = string(result.Validation.Status)
				rec.ValidationReason = result.Validation.Reason
			}
		}
		if storeErr := r.store.Complete(ctx, rec); storeErr != nil {
			log.Warn("failed to record request outcome", "error", storeErr)
		}
	}
	return result, err
}

func (r *Runner) run(ctx context.Context, log *slog.Logger, requestID, templatePath string, req Request, formats []convert.Format) (*Result, error) {
	stagingDir := filepath.Join(r.cfg.Paths.StagingDir, requestID)
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	bindings, err := numfmt.ProcessBindings(req.Bindings)
	if err != nil {
		return nil, err
	}

	ctx = services.WithStage(ctx, "render")
	log.Info("rendering template", "template", req.Template)
	workingPath := filepath.Join(stagingDir, req.Template+".docx")
	strict := req.Strict || r.cfg.Render.Strict
	if err := render.File(templatePath, workingPath, bindings, req.Grid, render.Options{Strict: strict}); err != nil {
		return nil, err
	}

	result := &Result{RequestID: requestID}
	staged := make([]Artifact, 0, len(formats))
	for _, format := range formats {
		switch format {
		case convert.FormatDOCX:
			staged = append(staged, Artifact{Format: format, Path: workingPath})
		case convert.FormatPDF:
			pdfPath, err := r.producePDF(ctx, log, stagingDir, workingPath, req.Archival, result)
			if err != nil {
				return result, err
			}
			staged = append(staged, Artifact{Format: format, Path: pdfPath})
		default:
			return result, fmt.Errorf("%w: unknown target format %q", services.ErrConfiguration, format)
		}
	}

	outputDir := filepath.Join(r.cfg.Paths.OutputDir, requestID)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, fmt.Errorf("create output directory: %w", err)
	}
	for _, artifact := range staged {
		finalPath := filepath.Join(outputDir, filepath.Base(artifact.Path))
		if err := moveFile(artifact.Path, finalPath); err != nil {
			_ = os.RemoveAll(outputDir)
			return result, fmt.Errorf("deliver artifact: %w", err)
		}
		result.Artifacts = append(result.Artifacts, Artifact{Format: artifact.Format, Path: finalPath})
	}

	log.Info("generation complete", "artifacts", len(result.Artifacts), "output_dir", outputDir)
	return result, nil
}

// producePDF converts the working document, optionally rewrites it to the
// archival profile, and gates archival output on the conformance validator.
// Conversion is retried once on transient failure; validation never is.
func (r *Runner) producePDF(ctx context.Context, log *slog.Logger, stagingDir, workingPath string, archival bool, result *Result) (string, error) {
	ctx = services.WithStage(ctx, "convert")
	log.Info("converting to pdf")
	pdfPath, err := r.convertWithRetry(ctx, log, workingPath, stagingDir)
	if err != nil {
		return "", err
	}

	if !archival {
		return pdfPath, nil
	}

	ctx = services.WithStage(ctx, "normalize")
	version := r.cfg.Converter.PDFAVersion
	log.Info("rewriting to archival profile", "pdfa_version", version)
	archivalPath := strings.TrimSuffix(pdfPath, ".pdf") + ".pdfa.pdf"
	normalizeCtx, cancel := context.WithTimeout(ctx, r.cfg.ConverterTimeout())
	err = r.normalizer.Normalize(normalizeCtx, pdfPath, archivalPath, version)
	cancel()
	if err != nil {
		return "", err
	}
	if err := os.Rename(archivalPath, pdfPath); err != nil {
		return "", fmt.Errorf("replace artifact with archival rewrite: %w", err)
	}

	ctx = services.WithStage(ctx, "validate")
	log.Info("running conformance validation")
	validateCtx, cancel := context.WithTimeout(ctx, r.cfg.ValidatorTimeout())
	verdict, err := r.validator.Validate(validateCtx, pdfPath)
	cancel()
	if err != nil {
		if verdict.Status == validate.StatusFail {
			result.Validation = &verdict
		}
		return "", err
	}
	result.Validation = &verdict
	if !verdict.Passed() {
		log.Warn("conformance validation failed", "reason", verdict.Reason)
		return "", fmt.Errorf("%w: archival artifact did not meet the conformance profile", services.ErrValidation)
	}
	return pdfPath, nil
}

func (r *Runner) convertWithRetry(ctx context.Context, log *slog.Logger, workingPath, stagingDir string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.ConverterTimeout())
	pdfPath, err := r.converter.Convert(attemptCtx, workingPath, stagingDir)
	cancel()
	if err == nil {
		return pdfPath, nil
	}
	if ctx.Err() != nil || !services.Transient(err) {
		return "", err
	}

	log.Warn("conversion failed, retrying once", "error", err)
	attemptCtx, cancel = context.WithTimeout(ctx, r.cfg.ConverterTimeout())
	pdfPath, retryErr := r.converter.Convert(attemptCtx, workingPath, stagingDir)
	cancel()
	if retryErr != nil {
		return "", retryErr
	}
	return pdfPath, nil
}

func containsFormat(formats []convert.Format, want convert.Format) bool {
	for _, format := range formats {
		if format == want {
			return true
		}
	}
	return false
}

func formatNames(formats []convert.Format) []string {
	names := make([]string, 0, len(formats))
	for _, format := range formats {
		names = append(names, string(format))
	}
	return names
}

// moveFile prefers a rename and falls back to a copy when staging and output
// sit on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
