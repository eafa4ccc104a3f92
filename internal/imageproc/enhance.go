package imageproc

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const (
	// DefaultMinWidth is the width small photos are upscaled to.
	DefaultMinWidth = 1200

	brightnessTarget = 128.0
	brightnessWeight = 0.3
)

// Enhancer converts a photo into a high-contrast grayscale raster.
// It holds no state between calls.
type Enhancer struct {
	// MinWidth triggers Lanczos upscaling for images narrower than 80% of it.
	// Zero disables upscaling.
	MinWidth int
}

// NewEnhancer returns an Enhancer using DefaultMinWidth.
func NewEnhancer() *Enhancer {
	return &Enhancer{MinWidth: DefaultMinWidth}
}

// Enhance upscales small images, converts to luminance, stretches contrast
// to the full [0,255] range and nudges mean brightness toward 128.
func (e *Enhancer) Enhance(img image.Image) (*image.Gray, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrProcessing)
	}

	src := image.Image(img)
	if w := img.Bounds().Dx(); e.MinWidth > 0 && float64(w) < float64(e.MinWidth)*0.8 {
		src = imaging.Resize(img, e.MinWidth, 0, imaging.Lanczos)
	}
	nrgba := imaging.Clone(src)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()

	lum := make([]uint8, w*h)
	minL, maxL := 255, 0
	var sum int
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			r, g, bl := float64(row[x*4]), float64(row[x*4+1]), float64(row[x*4+2])
			v := int(math.Round(0.299*r + 0.587*g + 0.114*bl))
			lum[y*w+x] = uint8(v)
			if v < minL {
				minL = v
			}
			if v > maxL {
				maxL = v
			}
			sum += v
		}
	}
	mean := float64(sum) / float64(len(lum))
	shift := (brightnessTarget - mean) * brightnessWeight

	out := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range lum {
		g := float64(v)
		if maxL > minL {
			g = math.Round((g - float64(minL)) / float64(maxL-minL) * 255)
		}
		out.Pix[(i/w)*out.Stride+i%w] = clamp(math.Round(g + shift))
	}
	return out, nil
}

func clamp(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
