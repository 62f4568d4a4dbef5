package validate

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"docforge/internal/services"
)

var commandContext = exec.CommandContext

// Status is the binary outcome of a conformance check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Result reports a conformance check outcome. Reason carries the validator's
// verbatim output when the check fails.
type Result struct {
	Status Status
	Reason string
}

// Passed reports whether the artifact met the conformance profile.
func (r Result) Passed() bool {
	return r.Status == StatusPass
}

// Client checks an archival artifact against its conformance profile.
type Client interface {
	Validate(ctx context.Context, artifactPath string) (Result, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default validator binary.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps an external conformance validator. The artifact path is the sole
// argument; exit code zero means the artifact conforms, any other exit code
// means it does not.
type CLI struct {
	binary string
}

// NewCLI constructs a validator client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "verapdf"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Validate runs the conformance check. A validator that cannot be started is
// an error; a validator that runs and rejects the artifact is a fail result,
// not an error.
func (c *CLI) Validate(ctx context.Context, artifactPath string) (Result, error) {
	if artifactPath == "" {
		return Result{}, errors.New("artifact path required")
	}

	var output bytes.Buffer
	cmd := commandContext(ctx, c.binary, artifactPath)
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if err == nil {
		return Result{Status: StatusPass}, nil
	}

	if ctx.Err() != nil {
		return Result{Status: StatusFail, Reason: "validator did not finish in time"},
			services.Wrap(services.ErrTimeout, "validator", "validate", "conformance check timed out", ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{Status: StatusFail, Reason: strings.TrimSpace(output.String())}, nil
	}

	return Result{}, services.Wrap(services.ErrExternalTool, "validator", "validate", "could not run validator", err)
}

var _ Client = (*CLI)(nil)
