// Package app assembles the recognition stack from configuration. It is
// shared by the server and the CLI.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/duosplit/internal/config"
	"github.com/mmynk/duosplit/internal/extract"
	"github.com/mmynk/duosplit/internal/imageproc"
	"github.com/mmynk/duosplit/internal/metrics"
	"github.com/mmynk/duosplit/internal/ocr"
	"github.com/mmynk/duosplit/internal/storage"
	"github.com/mmynk/duosplit/internal/storage/sqlite"
)

// Stack is the assembled recognition pipeline plus what must be closed.
type Stack struct {
	Pipeline *extract.Pipeline
	Cache    storage.RecognitionCache
}

// Close releases the cache, if any.
func (s *Stack) Close() error {
	if s.Cache == nil {
		return nil
	}
	return s.Cache.Close()
}

// Build wires engines, cache and enhancer from cfg. reg may be nil to skip
// metrics.
func Build(cfg *config.Config, reg prometheus.Registerer) (*Stack, error) {
	stack := &Stack{}

	if cfg.OCRCachePath != "" {
		cache, err := sqlite.New(cfg.OCRCachePath)
		if err != nil {
			return nil, fmt.Errorf("open ocr cache: %w", err)
		}
		stack.Cache = cache
		slog.Info("OCR cache initialized", "database", cfg.OCRCachePath)
	}

	var cache ocr.Cache
	if stack.Cache != nil {
		cache = stack.Cache
	}
	primary := ocr.NewCached(ocr.NewTesseract(cfg.OCRLanguages...), cache)

	var fallback ocr.Recognizer
	if cfg.RemoteEnabled() {
		remote, err := ocr.NewRemote(ocr.RemoteConfig{
			APIKey: cfg.RemoteAPIKey,
			Model:  cfg.RemoteModel,
			URL:    cfg.RemoteURL,
		})
		if err != nil && !errors.Is(err, ocr.ErrUnavailable) {
			stack.Close()
			return nil, err
		}
		if remote != nil {
			fallback = ocr.NewCached(remote, cache)
			slog.Info("Remote OCR fallback enabled", "model", cfg.RemoteModel)
		}
	}

	var rec *metrics.Recorder
	if reg != nil {
		rec = metrics.New(reg)
	}

	pipeline, err := extract.New(extract.Config{
		Primary:       primary,
		Fallback:      fallback,
		Enhancer:      &imageproc.Enhancer{MinWidth: cfg.EnhanceMinWidth},
		Options:       ocr.Options{Languages: cfg.OCRLanguages, PageSegMode: ocr.PSMAuto},
		MaxCandidates: cfg.MaxCandidates,
		Deadline:      cfg.OCRDeadline(),
		Metrics:       rec,
	})
	if err != nil {
		stack.Close()
		return nil, err
	}
	stack.Pipeline = pipeline
	return stack, nil
}
