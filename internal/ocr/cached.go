package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"log/slog"

	"github.com/mmynk/duosplit/internal/imageproc"
)

// Cache stores recognition results by content key.
type Cache interface {
	Get(ctx context.Context, key string) (Result, bool, error)
	Put(ctx context.Context, key, engine string, res Result) error
}

// Cached wraps a Recognizer with a result cache. Cache failures are logged
// and never fail recognition.
type Cached struct {
	next  Recognizer
	cache Cache
}

// NewCached returns next unchanged when cache is nil.
func NewCached(next Recognizer, cache Cache) Recognizer {
	if cache == nil {
		return next
	}
	return &Cached{next: next, cache: cache}
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Recognize(ctx context.Context, img image.Image, opts Options) (Result, error) {
	key, err := CacheKey(c.next.Name(), img, opts)
	if err != nil {
		return c.next.Recognize(ctx, img, opts)
	}

	if res, ok, err := c.cache.Get(ctx, key); err != nil {
		slog.Warn("OCR cache lookup failed", "engine", c.next.Name(), "error", err)
	} else if ok {
		slog.Debug("OCR cache hit", "engine", c.next.Name())
		return res, nil
	}

	res, err := c.next.Recognize(ctx, img, opts)
	if err != nil {
		return Result{}, err
	}
	if err := c.cache.Put(ctx, key, c.next.Name(), res); err != nil {
		slog.Warn("OCR cache store failed", "engine", c.next.Name(), "error", err)
	}
	return res, nil
}

// CacheKey hashes the encoded image together with engine and options.
func CacheKey(engine string, img image.Image, opts Options) (string, error) {
	data, err := imageproc.EncodePNG(img)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(engine))
	h.Write([]byte{0})
	h.Write([]byte(opts.Key()))
	return hex.EncodeToString(h.Sum(nil)), nil
}
