// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvFileVar names an alternative .env path.
const EnvFileVar = "DUOSPLIT_ENV_FILE"

type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	OCRLanguages   []string
	OCRDeadlineSec int
	// OCRCachePath is the sqlite cache file. Empty disables caching.
	OCRCachePath string

	RemoteAPIKey string
	RemoteModel  string
	RemoteURL    string

	MaxCandidates   int
	EnhanceMinWidth int
	PointWidth      int
	PointHeight     int

	SessionSecret string
	SessionTTL    time.Duration
}

// OCRDeadline returns OCRDeadlineSec as a duration.
func (c *Config) OCRDeadline() time.Duration {
	return time.Duration(c.OCRDeadlineSec) * time.Second
}

// RemoteEnabled reports whether the remote fallback engine is configured.
func (c *Config) RemoteEnabled() bool {
	return c.RemoteAPIKey != "" && c.RemoteModel != ""
}

// Load reads .env (from DUOSPLIT_ENV_FILE or the working directory) without
// overriding variables already set, then builds the Config.
func Load() (*Config, error) {
	envPath := getEnvWithDefault(EnvFileVar, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	pointW, pointH, err := parseSize(getEnvWithDefault("POINT_WINDOW", "240x80"))
	if err != nil {
		return nil, fmt.Errorf("POINT_WINDOW: %w", err)
	}
	ttl, err := time.ParseDuration(getEnvWithDefault("SESSION_TTL", "12h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL: invalid duration %q", os.Getenv("SESSION_TTL"))
	}

	cfg := &Config{
		Port:            positiveInt("PORT", 8080),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:       getEnvWithDefault("LOG_FORMAT", "text"),
		OCRLanguages:    splitList(getEnvWithDefault("OCR_LANGUAGES", "eng")),
		OCRDeadlineSec:  positiveInt("OCR_DEADLINE_SEC", 30),
		OCRCachePath:    getEnvWithDefault("OCR_CACHE_PATH", "./data/ocr-cache.db"),
		RemoteAPIKey:    strings.TrimSpace(os.Getenv("REMOTE_OCR_API_KEY")),
		RemoteModel:     strings.TrimSpace(os.Getenv("REMOTE_OCR_MODEL")),
		RemoteURL:       strings.TrimSpace(os.Getenv("REMOTE_OCR_URL")),
		MaxCandidates:   positiveInt("MAX_CANDIDATES", 20),
		EnhanceMinWidth: positiveInt("ENHANCE_MIN_WIDTH", 1200),
		PointWidth:      pointW,
		PointHeight:     pointH,
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionTTL:      ttl,
	}
	// An explicitly empty OCR_CACHE_PATH disables the cache.
	if v, ok := os.LookupEnv("OCR_CACHE_PATH"); ok && strings.TrimSpace(v) == "" {
		cfg.OCRCachePath = ""
	}
	return cfg, nil
}

func getEnvWithDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// positiveInt reads key as a positive integer, using fallback when unset or invalid.
func positiveInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '+' }) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseSize reads "WxH".
func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("expected WIDTHxHEIGHT, got %q", s)
	}
	wi, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil || wi <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || hi <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return wi, hi, nil
}
