package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	InputPath      string
	InputDelimiter rune
	CleanedPath    string
	OutputDir      string
	ProfilePath    string

	YearMin int
	YearMax int

	LogLevel    string
	LogFormat   string
	MetricsFile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	delim, err := parseDelimiter(envOrDefault("INPUT_DELIMITER", "tab"))
	if err != nil {
		return nil, err
	}

	yearMin, err := parseYear("YEAR_MIN", 2000)
	if err != nil {
		return nil, err
	}
	yearMax, err := parseYear("YEAR_MAX", 2024)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		InputPath:      envOrDefault("INPUT_PATH", "data/raw/occurrence.txt"),
		InputDelimiter: delim,
		CleanedPath:    envOrDefault("CLEANED_PATH", "data/processed/cetaceans_clean.csv"),
		OutputDir:      envOrDefault("OUTPUT_DIR", "outputs"),
		ProfilePath:    os.Getenv("PROFILE_PATH"),
		YearMin:        yearMin,
		YearMax:        yearMax,
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "text"),
		MetricsFile:    os.Getenv("METRICS_FILE"),
	}

	if cfg.InputPath == "" {
		return nil, errors.New("INPUT_PATH is required")
	}
	if cfg.CleanedPath == "" {
		return nil, errors.New("CLEANED_PATH is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.YearMin > cfg.YearMax {
		return nil, fmt.Errorf("YEAR_MIN (%d) must not exceed YEAR_MAX (%d)", cfg.YearMin, cfg.YearMax)
	}

	return cfg, nil
}

// Window returns the configured coverage window.
func (c *Config) Window() domain.Window {
	return domain.Window{MinYear: c.YearMin, MaxYear: c.YearMax}
}

// envOrDefault returns the trimmed value of key, or fallback when unset or blank.
func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parseDelimiter accepts a named separator or any single character.
func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid INPUT_DELIMITER %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("invalid INPUT_DELIMITER %q", s)
	}
	return r, nil
}

func parseYear(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 9999 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return n, nil
}
