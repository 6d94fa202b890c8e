package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"github.com/khanCurtis/rustwav/internal/domain"
)

var commandContext = exec.CommandContext

// Option configures the yt-dlp client.
type Option func(*YTDLP)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(y *YTDLP) {
		if binary != "" {
			y.binary = binary
		}
	}
}

// YTDLP searches via the yt-dlp command line tool.
type YTDLP struct {
	binary string
}

// NewYTDLP constructs a yt-dlp search client using defaults.
func NewYTDLP(opts ...Option) *YTDLP {
	y := &YTDLP{binary: "yt-dlp"}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// Search runs a flat ytsearch and parses one JSON object per output line.
// Lines that fail to parse are skipped; the search result order is kept.
func (y *YTDLP) Search(ctx context.Context, query string, limit int) ([]domain.CandidateSummary, error) {
	if query == "" {
		return nil, errors.New("search query required")
	}
	if limit < 1 {
		limit = 1
	}

	args := []string{
		"--flat-playlist",
		"--dump-json",
		fmt.Sprintf("ytsearch%d:%s", limit, query),
	}
	cmd := commandContext(ctx, y.binary, args...) //nolint:gosec

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start yt-dlp: %w", err)
	}

	var candidates []domain.CandidateSummary
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var payload struct {
			ID       string  `json:"id"`
			URL      string  `json:"url"`
			Title    string  `json:"title"`
			Uploader string  `json:"uploader"`
			Channel  string  `json:"channel"`
			Duration float64 `json:"duration"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &payload); err != nil {
			continue
		}
		uploader := payload.Uploader
		if uploader == "" {
			uploader = payload.Channel
		}
		url := payload.URL
		if url == "" && payload.ID != "" {
			url = "https://www.youtube.com/watch?v=" + payload.ID
		}
		candidates = append(candidates, domain.CandidateSummary{
			SourceID:   payload.ID,
			URL:        url,
			Title:      payload.Title,
			Uploader:   uploader,
			DurationMS: int(payload.Duration * 1000),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read yt-dlp output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("yt-dlp search failed: %w (stderr: %s)", err, stderr.String())
	}

	return candidates, nil
}

var _ AudioSource = (*YTDLP)(nil)
