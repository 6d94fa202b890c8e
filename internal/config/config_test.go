package config

import (
	"testing"

	"github.com/khanCurtis/rustwav/internal/constants"
	"github.com/khanCurtis/rustwav/internal/domain"
)

func validConfig() *Config {
	return &Config{
		DBPath:      "test.db",
		LibraryDir:  "/tmp/music",
		CatalogURL:  "http://127.0.0.1:8000",
		Link:        "https://open.spotify.com/album/abc123",
		Format:      "mp3",
		Quality:     "high",
		Concurrency: 4,
		MaxAttempts: 3,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty link", func(c *Config) { c.Link = "" }},
		{"bad format", func(c *Config) { c.Format = "ogg" }},
		{"bad quality", func(c *Config) { c.Quality = "extreme" }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestProfile_Portable(t *testing.T) {
	cfg := validConfig()
	cfg.Portable = true

	p := cfg.Profile()
	if p.Kind != domain.ProfilePortable {
		t.Errorf("expected portable profile, got %s", p.Kind)
	}
	if p.MaxFilenameLen != constants.PortableMaxFilename {
		t.Errorf("expected filename cap %d, got %d", constants.PortableMaxFilename, p.MaxFilenameLen)
	}
	if p.ArtMaxPx != constants.PortableArtMaxPx || p.ArtMaxBytes != constants.PortableArtMaxBytes {
		t.Errorf("unexpected art caps %d px / %d bytes", p.ArtMaxPx, p.ArtMaxBytes)
	}
}

func TestProfile_Standard(t *testing.T) {
	p := validConfig().Profile()
	if p.Kind != domain.ProfileStandard {
		t.Errorf("expected standard profile, got %s", p.Kind)
	}
	if p.Format != "mp3" || p.Quality != "high" {
		t.Errorf("profile did not carry format/quality: %+v", p)
	}
}
