package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/mmynk/duosplit/internal/imageproc"
	"github.com/mmynk/duosplit/internal/models"
)

// Tesseract recognizes text with a local Tesseract install through gosseract.
// Each call uses its own client, so one Tesseract value serves concurrent
// region jobs.
type Tesseract struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseract creates an engine defaulting to the given languages ("eng"
// when none are given).
func NewTesseract(languages ...string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Tesseract{languages: languages, clientFactory: gosseract.NewClient}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Recognize runs Tesseract on img. The cgo call itself cannot be interrupted,
// so on cancellation Recognize returns ctx.Err() and the client is closed once
// the call finishes in the background.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, opts Options) (Result, error) {
	data, err := imageproc.EncodePNG(img)
	if err != nil {
		return Result{}, err
	}

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		c := t.clientFactory()
		defer c.Close()
		res, err := t.recognizeWithClient(c, data, opts)
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case o := <-done:
		return o.res, o.err
	}
}

func (t *Tesseract) recognizeWithClient(c *gosseract.Client, data []byte, opts Options) (Result, error) {
	langs := opts.Languages
	if len(langs) == 0 {
		langs = t.languages
	}
	if err := c.SetLanguage(langs...); err != nil {
		return Result{}, fmt.Errorf("set languages: %w", err)
	}
	if opts.CharacterWhitelist != "" {
		if err := c.SetWhitelist(opts.CharacterWhitelist); err != nil {
			return Result{}, fmt.Errorf("set whitelist: %w", err)
		}
	}
	if opts.PageSegMode != PSMDefault {
		if err := c.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
			return Result{}, fmt.Errorf("set page segmentation mode: %w", err)
		}
	}
	// gosseract fixes the engine mode at client init; EngineMode is not applied.
	if err := c.SetImageFromBytes(data); err != nil {
		return Result{}, fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return Result{}, fmt.Errorf("recognize text: %w", err)
	}
	return Result{
		Text:  strings.TrimSpace(text),
		Words: extractWords(c),
	}, nil
}

func extractWords(c *gosseract.Client) []models.Word {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil
	}
	words := make([]models.Word, 0, len(boxes))
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" {
			continue
		}
		words = append(words, models.Word{
			Text:       b.Word,
			Box:        models.Region{X: b.Box.Min.X, Y: b.Box.Min.Y, Width: b.Box.Dx(), Height: b.Box.Dy()},
			Confidence: b.Confidence / 100.0,
		})
	}
	return words
}
