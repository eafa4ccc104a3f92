// Package storage provides abstractions for persistent data storage.
//
// Bills themselves are never persisted. The only durable state is a cache of
// OCR results so that re-scanning the same photo does not pay for
// recognition twice.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/duosplit/internal/ocr"
)

// RecognitionCache stores OCR results keyed by image content, engine and options.
// This abstraction allows swapping storage backends without changing the
// extraction pipeline.
type RecognitionCache interface {
	ocr.Cache

	// Prune deletes entries created before the cutoff and reports how many
	// were removed.
	Prune(ctx context.Context, before time.Time) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
