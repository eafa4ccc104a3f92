package sqlite

import (
	"context"
	"image"

	"github.com/mmynk/duosplit/internal/ocr"
)

type staticRecognizer struct{ text string }

func (staticRecognizer) Name() string { return "static" }

func (r staticRecognizer) Recognize(ctx context.Context, img image.Image, opts ocr.Options) (ocr.Result, error) {
	return ocr.Result{Text: r.text}, nil
}

func testGray() image.Image {
	return image.NewGray(image.Rect(0, 0, 4, 4))
}
