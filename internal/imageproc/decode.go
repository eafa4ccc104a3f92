// Package imageproc prepares receipt photos for OCR: decoding, enhancement,
// and sampling sub-regions picked on a scaled on-screen rendering.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	// Extra formats phones and scanners produce, on top of imaging's
	// jpeg/png/gif/tiff/bmp.
	_ "golang.org/x/image/webp"

	"github.com/disintegration/imaging"
)

var (
	// ErrDecode means the source image could not be read.
	ErrDecode = errors.New("image could not be decoded")
	// ErrProcessing means a decoded image could not be transformed.
	ErrProcessing = errors.New("image processing failed")
)

// Decode reads an image, applying EXIF orientation so photos taken sideways
// come out upright.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}
	return img, nil
}

// DecodeBytes is Decode for an in-memory payload.
func DecodeBytes(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no data", ErrDecode)
	}
	return Decode(bytes.NewReader(data))
}

// EncodePNG serializes img for engines that take encoded bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
