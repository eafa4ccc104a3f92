package imageproc

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// MinSelectionSize is the smallest selection, in native pixels per side,
// treated as a deliberate region rather than an accidental click.
const MinSelectionSize = 20

// ErrSelectionTooSmall is returned by ValidateSelection.
var ErrSelectionTooSmall = errors.New("selection too small")

// Viewport relates the native image size to the size it was displayed at.
type Viewport struct {
	NativeWidth   int
	NativeHeight  int
	DisplayWidth  int
	DisplayHeight int
}

// Identity returns a viewport for an image displayed at native size.
func Identity(b image.Rectangle) Viewport {
	return Viewport{NativeWidth: b.Dx(), NativeHeight: b.Dy(), DisplayWidth: b.Dx(), DisplayHeight: b.Dy()}
}

func (v Viewport) scale() (float64, float64, error) {
	if v.DisplayWidth <= 0 || v.DisplayHeight <= 0 || v.NativeWidth <= 0 || v.NativeHeight <= 0 {
		return 0, 0, fmt.Errorf("invalid viewport %dx%d shown at %dx%d",
			v.NativeWidth, v.NativeHeight, v.DisplayWidth, v.DisplayHeight)
	}
	return float64(v.NativeWidth) / float64(v.DisplayWidth),
		float64(v.NativeHeight) / float64(v.DisplayHeight), nil
}

// ToNativePoint maps a display-space point to native pixels.
func (v Viewport) ToNativePoint(p image.Point) (image.Point, error) {
	sx, sy, err := v.scale()
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(int(math.Round(float64(p.X)*sx)), int(math.Round(float64(p.Y)*sy))), nil
}

// ToNativeRect maps a display-space rectangle to native pixels.
func (v Viewport) ToNativeRect(r image.Rectangle) (image.Rectangle, error) {
	min, err := v.ToNativePoint(r.Min)
	if err != nil {
		return image.Rectangle{}, err
	}
	max, err := v.ToNativePoint(r.Max)
	if err != nil {
		return image.Rectangle{}, err
	}
	return image.Rectangle{Min: min, Max: max}.Canon(), nil
}

// ValidateSelection rejects selections smaller than MinSelectionSize on
// either side.
func ValidateSelection(r image.Rectangle) error {
	r = r.Canon()
	if r.Dx() < MinSelectionSize || r.Dy() < MinSelectionSize {
		return fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrSelectionTooSmall,
			r.Dx(), r.Dy(), MinSelectionSize, MinSelectionSize)
	}
	return nil
}

// PointWindow returns a w x h rectangle centred on p, shifted to stay inside
// bounds where possible and clipped otherwise.
func PointWindow(p image.Point, w, h int, bounds image.Rectangle) image.Rectangle {
	r := image.Rect(p.X-w/2, p.Y-h/2, p.X-w/2+w, p.Y-h/2+h)
	if r.Min.X < bounds.Min.X {
		r = r.Add(image.Pt(bounds.Min.X-r.Min.X, 0))
	}
	if r.Min.Y < bounds.Min.Y {
		r = r.Add(image.Pt(0, bounds.Min.Y-r.Min.Y))
	}
	if r.Max.X > bounds.Max.X {
		r = r.Sub(image.Pt(r.Max.X-bounds.Max.X, 0))
	}
	if r.Max.Y > bounds.Max.Y {
		r = r.Sub(image.Pt(0, r.Max.Y-bounds.Max.Y))
	}
	return r.Intersect(bounds)
}

// Sample crops r (native pixels) out of img into a standalone raster whose
// origin is (0,0). The rectangle is clipped to the image bounds.
func Sample(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no source image", ErrProcessing)
	}
	clipped := r.Canon().Intersect(img.Bounds())
	if clipped.Empty() {
		return nil, fmt.Errorf("%w: region %v outside image %v", ErrProcessing, r, img.Bounds())
	}
	return imaging.Crop(img, clipped), nil
}
