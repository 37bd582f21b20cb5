package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/yanqian/legal-assistant/internal/domain/extractor"
)

// ErrToolNotFound is returned when the pdftotext binary is not installed.
var ErrToolNotFound = errors.New("pdftotext not found in PATH (install poppler-utils)")

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
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

// Poppler shells out to poppler's pdftotext.
type Poppler struct {
	binary   string
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// NewPoppler constructs a parser for the given pdftotext binary.
func NewPoppler(binary string, runner CommandRunner) *Poppler {
	if strings.TrimSpace(binary) == "" {
		binary = "pdftotext"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Poppler{binary: binary, runner: runner, lookPath: exec.LookPath}
}

// Available reports whether the binary can be resolved.
func (p *Poppler) Available() error {
	if _, err := p.lookPath(p.binary); err != nil {
		return ErrToolNotFound
	}
	return nil
}

// ExtractText runs `pdftotext -enc UTF-8 <path> -` and returns stdout.
func (p *Poppler) ExtractText(ctx context.Context, path string) (string, error) {
	if err := p.Available(); err != nil {
		return "", err
	}
	out, err := p.runner.Run(ctx, p.binary, "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(out), nil
}

var _ extractor.PDFParser = (*Poppler)(nil)
