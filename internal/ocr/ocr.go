// Package ocr defines the text-recognition contract the extraction pipeline
// consumes, together with the engines that satisfy it.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/mmynk/duosplit/internal/models"
)

// NumericWhitelist restricts recognition to characters that can appear in a
// price. Engines that support whitelisting use it for price-only passes.
const NumericWhitelist = "0123456789.$ "

// ErrUnavailable is returned by engines that are not configured.
var ErrUnavailable = errors.New("ocr engine unavailable")

// PageSegMode mirrors Tesseract's page segmentation modes.
type PageSegMode int

const (
	PSMDefault     PageSegMode = 0 // engine default
	PSMAuto        PageSegMode = 3
	PSMSingleBlock PageSegMode = 6
	PSMSingleLine  PageSegMode = 7
	PSMSparseText  PageSegMode = 11
)

// EngineMode mirrors Tesseract's OCR engine modes.
type EngineMode int

const (
	OEMDefault  EngineMode = 0 // engine default
	OEMLegacy   EngineMode = 1
	OEMLSTM     EngineMode = 2
	OEMCombined EngineMode = 3
)

// Options parameterize a recognition call. The zero value means engine defaults.
type Options struct {
	CharacterWhitelist string
	PageSegMode        PageSegMode
	EngineMode         EngineMode
	Languages          []string
}

// Numeric returns a copy of o restricted to NumericWhitelist.
func (o Options) Numeric() Options {
	o.CharacterWhitelist = NumericWhitelist
	return o
}

// Key is a stable textual form of the options, used in cache keys.
func (o Options) Key() string {
	return fmt.Sprintf("wl=%s;psm=%d;oem=%d;lang=%s",
		o.CharacterWhitelist, o.PageSegMode, o.EngineMode, strings.Join(o.Languages, "+"))
}

// Result is the recognized text and, when the engine provides them, the
// individual word tokens with geometry in the input image's pixel space.
type Result struct {
	Text  string
	Words []models.Word
}

// Recognizer turns a raster into text. Implementations must be safe for
// concurrent use and return promptly once ctx is done.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, img image.Image, opts Options) (Result, error)
}

// OffsetWords translates word boxes by (dx, dy), used to map results from a
// cropped sample back into source image coordinates.
func OffsetWords(words []models.Word, dx, dy int) []models.Word {
	if len(words) == 0 {
		return words
	}
	out := make([]models.Word, len(words))
	for i, w := range words {
		w.Box.X += dx
		w.Box.Y += dy
		out[i] = w
	}
	return out
}
