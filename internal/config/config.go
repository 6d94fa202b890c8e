package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/khanCurtis/rustwav/internal/constants"
	"github.com/khanCurtis/rustwav/internal/domain"
)

// Config holds all application configuration
type Config struct {
	DBPath      string
	LibraryDir  string
	CatalogURL  string
	Link        string
	Format      string
	Quality     string
	Portable    bool
	Concurrency int
	MaxAttempts int
	LogLevel    string
	LogFormat   string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	home, _ := os.UserHomeDir()
	defaultLibrary := filepath.Join(home, constants.DefaultLibraryDir)

	return &Config{
		DBPath:      getEnv("DB_PATH", constants.DefaultDBPath),
		LibraryDir:  getEnv("LIBRARY_DIR", defaultLibrary),
		CatalogURL:  getEnv("CATALOG_URL", constants.DefaultCatalogURL),
		Link:        getEnv("CATALOG_LINK", ""),
		Format:      getEnv("FORMAT", constants.DefaultFormat),
		Quality:     getEnv("QUALITY", constants.DefaultQuality),
		Portable:    getEnvBool("PORTABLE", false),
		Concurrency: getEnvInt("CONCURRENCY", constants.DefaultConcurrency),
		MaxAttempts: getEnvInt("MAX_ATTEMPTS", constants.DefaultMaxAttempts),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.LibraryDir == "" {
		errors = append(errors, "LIBRARY_DIR cannot be empty")
	}

	if c.CatalogURL == "" {
		errors = append(errors, "CATALOG_URL cannot be empty")
	} else {
		if _, err := url.Parse(c.CatalogURL); err != nil {
			errors = append(errors, fmt.Sprintf("CATALOG_URL is not a valid URL: %s", c.CatalogURL))
		}
	}

	if c.Link == "" {
		errors = append(errors, "CATALOG_LINK cannot be empty")
	}

	validFormats := map[string]bool{
		constants.FormatMP3:  true,
		constants.FormatFLAC: true,
		constants.FormatM4A:  true,
		constants.FormatWAV:  true,
	}
	if !validFormats[c.Format] {
		errors = append(errors, fmt.Sprintf("FORMAT must be one of: mp3, flac, m4a, wav, got: %s", c.Format))
	}

	validQualities := map[string]bool{
		constants.QualityHigh:   true,
		constants.QualityMedium: true,
		constants.QualityLow:    true,
	}
	if !validQualities[c.Quality] {
		errors = append(errors, fmt.Sprintf("QUALITY must be one of: high, medium, low, got: %s", c.Quality))
	}

	if c.Concurrency < 1 {
		errors = append(errors, fmt.Sprintf("CONCURRENCY must be at least 1, got: %d", c.Concurrency))
	}

	if c.MaxAttempts < 1 {
		errors = append(errors, fmt.Sprintf("MAX_ATTEMPTS must be at least 1, got: %d", c.MaxAttempts))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Profile builds the run's output profile. The profile is fixed for the
// whole run; no per-track overrides exist.
func (c *Config) Profile() domain.OutputProfile {
	if c.Portable {
		return domain.OutputProfile{
			Kind:           domain.ProfilePortable,
			Format:         c.Format,
			Quality:        c.Quality,
			MaxFilenameLen: constants.PortableMaxFilename,
			ArtMaxPx:       constants.PortableArtMaxPx,
			ArtMaxBytes:    constants.PortableArtMaxBytes,
		}
	}
	return domain.OutputProfile{
		Kind:           domain.ProfileStandard,
		Format:         c.Format,
		Quality:        c.Quality,
		MaxFilenameLen: constants.StandardMaxFilename,
		ArtMaxPx:       constants.StandardArtMaxPx,
		ArtMaxBytes:    constants.StandardArtMaxBytes,
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
