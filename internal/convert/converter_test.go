package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"docforge/internal/services"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"pdf":   FormatPDF,
		"PDF":   FormatPDF,
		"docx":  FormatDOCX,
		" docx": FormatDOCX,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("ParseFormat(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseFormat("odt"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unknown format, got %v", err)
	}
}

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/libreoffice/soffice"))
	if cli.binary != "/opt/libreoffice/soffice" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestConvertRequiresInput(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.Convert(context.Background(), "", "/tmp"); err == nil {
		t.Fatal("expected error when input path is empty")
	}
}

func TestConvertRequiresOutputDir(t *testing.T) {
	cli := NewCLI()
	if _, err := cli.Convert(context.Background(), "/tmp/doc.docx", ""); err == nil {
		t.Fatal("expected error when output directory is empty")
	}
}

func TestConvertArgsIsolateProfile(t *testing.T) {
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		writeExpectedOutput(args)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "CONVERT_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI()
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "report.docx")
	outputDir := filepath.Join(tempDir, "out")

	if _, err := cli.Convert(context.Background(), input, outputDir); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	var profileArg string
	for _, arg := range capturedArgs {
		if strings.HasPrefix(arg, "-env:UserInstallation=file://") {
			profileArg = arg
		}
	}
	if profileArg == "" {
		t.Fatalf("expected an isolated profile argument, got %v", capturedArgs)
	}
	if !strings.Contains(profileArg, outputDir) {
		t.Fatalf("expected profile directory under the request output dir, got %q", profileArg)
	}
	if findArg(capturedArgs, "--headless") == -1 {
		t.Fatalf("expected --headless, got %v", capturedArgs)
	}
	idx := findArg(capturedArgs, "--convert-to")
	if idx == -1 || idx+1 >= len(capturedArgs) || capturedArgs[idx+1] != "pdf" {
		t.Fatalf("expected --convert-to pdf, got %v", capturedArgs)
	}
}

func TestConvertSuccess(t *testing.T) {
	setConvertHelper(t, "success", true)

	cli := NewCLI()
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "report.docx")
	outputDir := filepath.Join(tempDir, "out")

	path, err := cli.Convert(context.Background(), input, outputDir)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	want := filepath.Join(outputDir, "report.pdf")
	if path != want {
		t.Fatalf("expected artifact %q, got %q", want, path)
	}
}

func TestConvertAdoptsRenamedOutput(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		// Simulate the renderer writing under a suffixed name.
		outDir, stem := outputTarget(args)
		if outDir != "" {
			_ = os.WriteFile(filepath.Join(outDir, stem+"-1.pdf"), []byte("%PDF"), 0o644)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "CONVERT_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI()
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "report.docx")
	outputDir := filepath.Join(tempDir, "out")

	path, err := cli.Convert(context.Background(), input, outputDir)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	want := filepath.Join(outputDir, "report.pdf")
	if path != want {
		t.Fatalf("expected adopted artifact %q, got %q", want, path)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected artifact on disk: %v", err)
	}
}

func TestConvertFailureIsConversionError(t *testing.T) {
	setConvertHelper(t, "failure", false)

	cli := NewCLI()
	tempDir := t.TempDir()

	_, err := cli.Convert(context.Background(), filepath.Join(tempDir, "report.docx"), filepath.Join(tempDir, "out"))
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
	if !strings.Contains(err.Error(), "renderer crashed") {
		t.Fatalf("expected tool output in error, got %v", err)
	}
	if !services.Transient(err) {
		t.Fatal("expected conversion failure to be transient")
	}
}

func TestConvertNoOutputIsConversionError(t *testing.T) {
	setConvertHelper(t, "success", false)

	cli := NewCLI()
	tempDir := t.TempDir()

	_, err := cli.Convert(context.Background(), filepath.Join(tempDir, "report.docx"), filepath.Join(tempDir, "out"))
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected ErrConversion when no output appears, got %v", err)
	}
}

func TestConvertTimeout(t *testing.T) {
	setConvertHelper(t, "sleep", false)

	cli := NewCLI()
	tempDir := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := cli.Convert(ctx, filepath.Join(tempDir, "report.docx"), filepath.Join(tempDir, "out"))
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestNormalizeArgs(t *testing.T) {
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		for _, arg := range args {
			if strings.HasPrefix(arg, "-sOutputFile=") {
				_ = os.WriteFile(strings.TrimPrefix(arg, "-sOutputFile="), []byte("%PDF"), 0o644)
			}
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "CONVERT_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() { commandContext = original })

	gs := NewGhostscript()
	tempDir := t.TempDir()
	input := filepath.Join(tempDir, "report.pdf")
	output := filepath.Join(tempDir, "report.pdfa.pdf")

	if err := gs.Normalize(context.Background(), input, output, 2); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	for _, want := range []string{
		"-dPDFA=2",
		"-dBATCH",
		"-dNOPAUSE",
		"-dPDFACompatibilityPolicy=1",
		"-dPDFSETTINGS=/prepress",
		"-dAutoRotatePages=/None",
		"-sDEVICE=pdfwrite",
		"-sOutputFile=" + output,
		input,
	} {
		if findArg(capturedArgs, want) == -1 {
			t.Fatalf("expected argument %q, got %v", want, capturedArgs)
		}
	}
}

func TestNormalizeRejectsBadVersion(t *testing.T) {
	gs := NewGhostscript()
	err := gs.Normalize(context.Background(), "in.pdf", "out.pdf", 4)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestNormalizeFailure(t *testing.T) {
	setConvertHelper(t, "failure", false)

	gs := NewGhostscript()
	tempDir := t.TempDir()

	err := gs.Normalize(context.Background(), filepath.Join(tempDir, "in.pdf"), filepath.Join(tempDir, "out.pdf"), 1)
	if !errors.Is(err, services.ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
}

func setConvertHelper(t *testing.T, mode string, produceOutput bool) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if produceOutput {
			writeExpectedOutput(args)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("CONVERT_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

// writeExpectedOutput mimics the renderer dropping its artifact next to the
// requested output directory.
func writeExpectedOutput(args []string) {
	outDir, stem := outputTarget(args)
	if outDir == "" {
		return
	}
	_ = os.WriteFile(filepath.Join(outDir, stem+".pdf"), []byte("%PDF"), 0o644)
}

func outputTarget(args []string) (outDir, stem string) {
	for i, arg := range args {
		if arg == "--outdir" && i+1 < len(args) {
			outDir = args[i+1]
		}
	}
	if len(args) == 0 || outDir == "" {
		return "", ""
	}
	input := args[len(args)-1]
	stem = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return outDir, stem
}

func findArg(args []string, target string) int {
	for i, arg := range args {
		if arg == target {
			return i
		}
	}
	return -1
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("CONVERT_HELPER_MODE") {
	case "success":
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "renderer crashed")
		os.Exit(1)
	case "sleep":
		time.Sleep(2 * time.Second)
		os.Exit(0)
	default:
		os.Exit(0)
	}
}
