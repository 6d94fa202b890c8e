// Package extract runs the external download tool and yields an audio file
// in the requested format.
package extract

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/khanCurtis/rustwav/internal/constants"
	"github.com/khanCurtis/rustwav/internal/domain"
)

var commandContext = exec.CommandContext

// qualityArgs maps the quality knob to yt-dlp's --audio-quality scale.
var qualityArgs = map[string]string{
	constants.QualityHigh:   "0",
	constants.QualityMedium: "5",
	constants.QualityLow:    "9",
}

// Option configures the extractor.
type Option func(*Extractor)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(e *Extractor) {
		if binary != "" {
			e.binary = binary
		}
	}
}

// WithTimeout overrides the per-extraction timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// Extractor wraps the yt-dlp command line tool for single-track extraction.
type Extractor struct {
	binary  string
	timeout time.Duration
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		binary:  "yt-dlp",
		timeout: constants.ExtractTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract downloads the candidate URL into workDir and transcodes it to the
// profile's format. The returned path is workDir/<name>.<format>. Progress
// lines go to logLine when it is non-nil.
func (e *Extractor) Extract(ctx context.Context, url, workDir, name string, profile domain.OutputProfile, logLine func(string)) (string, error) {
	if url == "" {
		return "", errors.New("candidate url required")
	}
	if err := os.MkdirAll(workDir, constants.DirPermissions); err != nil {
		return "", &domain.DownloadError{Err: fmt.Errorf("create work dir: %w", err)}
	}

	quality, ok := qualityArgs[profile.Quality]
	if !ok {
		quality = qualityArgs[constants.QualityHigh]
	}

	outputTemplate := filepath.Join(workDir, name+".%(ext)s")
	args := []string{
		"-x",
		"--no-playlist",
		"--audio-format", profile.Format,
		"--audio-quality", quality,
		"--newline",
		"--progress",
		"-o", outputTemplate,
		url,
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := commandContext(runCtx, e.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", &domain.DownloadError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}
	stderr := &tailBuffer{limit: 2048}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return "", &domain.DownloadError{Err: fmt.Errorf("start %s: %w", e.binary, err)}
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if logLine != nil {
			logLine(scanner.Text())
		}
	}

	if err := cmd.Wait(); err != nil {
		tail := stderr.String()
		if runCtx.Err() == context.DeadlineExceeded {
			return "", &domain.DownloadError{Transient: true, Stderr: tail, Err: runCtx.Err()}
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &domain.DownloadError{
				ExitCode:  exitErr.ExitCode(),
				Stderr:    tail,
				Transient: transientStderr(tail),
				Err:       err,
			}
		}
		return "", &domain.DownloadError{Transient: true, Stderr: tail, Err: err}
	}

	outPath := filepath.Join(workDir, name+"."+profile.Format)
	if _, err := os.Stat(outPath); err != nil {
		return "", &domain.DownloadError{Err: fmt.Errorf("expected output %s missing: %w", outPath, err)}
	}
	return outPath, nil
}

// transientStderr spots failures that are worth another attempt.
func transientStderr(tail string) bool {
	lower := strings.ToLower(tail)
	for _, pattern := range []string{
		"timed out",
		"timeout",
		"connection reset",
		"connection refused",
		"temporary failure",
		"network is unreachable",
		"http error 5",
		"http error 429",
		"unable to download",
	} {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// tailBuffer keeps only the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.limit {
		t.buf = t.buf[len(t.buf)-t.limit:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
