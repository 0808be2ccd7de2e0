package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
)

// Ensure Poppler implements the interface.
var _ driven.TextExtractor = (*Poppler)(nil)

const popplerTool = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = fmt.Errorf("%w: pdftotext not found in PATH", domain.ErrToolNotFound)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Poppler extracts text with the pdftotext command-line tool.
type Poppler struct {
	runner   CommandRunner
	lookPath bool
}

// NewPoppler creates an extractor that runs the installed pdftotext.
func NewPoppler() *Poppler {
	return &Poppler{runner: execRunner{}, lookPath: true}
}

// NewPopplerWithRunner creates an extractor with a custom runner.
// The runner is trusted to provide pdftotext, so no PATH lookup is made.
func NewPopplerWithRunner(runner CommandRunner) *Poppler {
	return &Poppler{runner: runner}
}

// Name identifies the backend.
func (p *Poppler) Name() string {
	return string(domain.PDFBackendPoppler)
}

// ExtractText runs pdftotext on path and returns its output.
func (p *Poppler) ExtractText(ctx context.Context, path string, allPages bool) (string, error) {
	if p.lookPath {
		if err := CheckAvailable(); err != nil {
			return "", err
		}
	}

	args := []string{"-enc", "UTF-8"}
	if !allPages {
		args = append(args, "-f", "1", "-l", "1")
	}
	args = append(args, path, "-")

	out, err := p.runner.Run(ctx, popplerTool, args...)
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}

	// pdftotext separates pages with form feeds.
	text := strings.ReplaceAll(string(out), "\f", "\n")
	return strings.TrimSpace(text), nil
}

// CheckAvailable reports whether pdftotext is on the PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(popplerTool); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions explains how to install pdftotext.
func InstallInstructions() string {
	return `pdftotext (from poppler) gives the most reliable voucher text.

Install it with:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils

Without it, set pdf.backend = "native" to use the built-in reader.`
}
