package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBinaryPath = "wkhtmltopdf"
	defaultTimeout    = 30 * time.Second
)

// RenderError describes a failed HTML to PDF conversion.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error { return e.Cause }

const (
	ErrCodeBinaryNotFound = "BINARY_NOT_FOUND"
	ErrCodeInvalidHTML    = "INVALID_HTML"
	ErrCodeRenderFailed   = "RENDER_FAILED"
	ErrCodeRenderTimeout  = "RENDER_TIMEOUT"
)

func newRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

// Config controls the wkhtmltopdf invocation.
type Config struct {
	// BinaryPath is the wkhtmltopdf executable; a bare name is resolved
	// through PATH.
	BinaryPath string
	// Timeout bounds a single conversion.
	Timeout time.Duration
	// TempDir holds the intermediate HTML and PDF files.
	TempDir string
	Logger  *zap.Logger
}

// Renderer converts a complete HTML document into a PDF byte stream by
// shelling out to the wkhtmltopdf binary. The converter is treated as an
// opaque function; conversions are never retried or cached.
type Renderer struct {
	binaryPath string
	timeout    time.Duration
	tempDir    string
	logger     *zap.Logger
}

// NewRenderer verifies the converter binary exists and returns a Renderer.
func NewRenderer(cfg Config) (*Renderer, error) {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = defaultBinaryPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	binaryPath, err := resolveBinaryPath(cfg.BinaryPath)
	if err != nil {
		return nil, newRenderError(ErrCodeBinaryNotFound,
			fmt.Sprintf("wkhtmltopdf binary not found: %s", cfg.BinaryPath), err)
	}

	return &Renderer{
		binaryPath: binaryPath,
		timeout:    cfg.Timeout,
		tempDir:    cfg.TempDir,
		logger:     cfg.Logger,
	}, nil
}

func resolveBinaryPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return exec.LookPath(path)
}

// Render converts html to PDF and returns the raw bytes.
func (r *Renderer) Render(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, newRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	htmlPath, err := writeTemp(r.tempDir, "billing-*.html", html)
	if err != nil {
		return nil, newRenderError(ErrCodeRenderFailed, "failed to write temp HTML file", err)
	}
	defer os.Remove(htmlPath)

	pdfFile, err := os.CreateTemp(r.tempDir, "billing-*.pdf")
	if err != nil {
		return nil, newRenderError(ErrCodeRenderFailed, "failed to create temp PDF file", err)
	}
	pdfPath := pdfFile.Name()
	pdfFile.Close()
	defer os.Remove(pdfPath)

	args := buildArgs(htmlPath, pdfPath)
	r.logger.Debug("executing wkhtmltopdf",
		zap.String("binary", r.binaryPath),
		zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, r.binaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, newRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", r.timeout), err)
		}
		r.logger.Error("wkhtmltopdf failed",
			zap.Error(err),
			zap.String("stderr", stderr.String()))
		return nil, newRenderError(ErrCodeRenderFailed,
			"wkhtmltopdf execution failed: "+stderr.String(), err)
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, newRenderError(ErrCodeRenderFailed, "failed to read generated PDF", err)
	}
	if len(data) == 0 {
		return nil, newRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	r.logger.Debug("PDF rendered", zap.Int("bytes", len(data)))
	return data, nil
}

func buildArgs(htmlPath, pdfPath string) []string {
	return []string{
		"--quiet",
		"--encoding", "UTF-8",
		"--page-size", "A4",
		"--disable-javascript",
		"--disable-local-file-access",
		htmlPath,
		pdfPath,
	}
}

func writeTemp(dir, pattern, content string) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
