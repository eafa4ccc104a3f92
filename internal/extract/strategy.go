// Package extract turns a receipt image into candidate prices. Capture
// strategies decide which parts of the image are read; the Pipeline runs the
// OCR engines over them and hands the merged text to the parser.
package extract

import (
	"fmt"
	"image"

	"github.com/mmynk/duosplit/internal/imageproc"
)

// Default point-sample window, in native pixels. Wide enough for a price and
// its label on a typical phone photo.
const (
	DefaultPointWidth  = 240
	DefaultPointHeight = 80
)

// Job is one sampling unit. Jobs are merged in Index order regardless of
// which finishes first.
type Job struct {
	Index int
	// Rect is the sample in native pixels. It equals the image bounds for
	// whole-image recognition.
	Rect image.Rectangle
}

// Strategy decides which parts of an image are recognized.
type Strategy interface {
	Name() string
	Jobs(bounds image.Rectangle) ([]Job, error)
}

// WholeImage recognizes the full image in a single pass.
type WholeImage struct{}

func (WholeImage) Name() string { return "whole_image" }

func (WholeImage) Jobs(bounds image.Rectangle) ([]Job, error) {
	return []Job{{Index: 0, Rect: bounds}}, nil
}

// RegionSelect recognizes user-dragged rectangles given in display space.
type RegionSelect struct {
	Regions []image.Rectangle
	// Viewport maps display coordinates to native ones. The zero value means
	// the image was shown at native size.
	Viewport imageproc.Viewport
}

func (RegionSelect) Name() string { return "region_select" }

func (s RegionSelect) Jobs(bounds image.Rectangle) ([]Job, error) {
	if len(s.Regions) == 0 {
		return nil, fmt.Errorf("%w: no regions selected", imageproc.ErrSelectionTooSmall)
	}
	vp := viewportFor(s.Viewport, bounds)
	jobs := make([]Job, 0, len(s.Regions))
	for i, r := range s.Regions {
		native, err := vp.ToNativeRect(r)
		if err != nil {
			return nil, err
		}
		if err := imageproc.ValidateSelection(native); err != nil {
			return nil, fmt.Errorf("region %d: %w", i, err)
		}
		native = native.Intersect(bounds)
		if native.Empty() {
			return nil, fmt.Errorf("region %d lies outside the image: %w", i, imageproc.ErrProcessing)
		}
		jobs = append(jobs, Job{Index: i, Rect: native})
	}
	return jobs, nil
}

// PointSample recognizes a fixed window around each clicked point.
type PointSample struct {
	Points   []image.Point
	Viewport imageproc.Viewport
	// Window size in native pixels; zero uses the defaults.
	Width  int
	Height int
}

func (PointSample) Name() string { return "point_sample" }

func (s PointSample) Jobs(bounds image.Rectangle) ([]Job, error) {
	if len(s.Points) == 0 {
		return nil, fmt.Errorf("%w: no points selected", imageproc.ErrSelectionTooSmall)
	}
	w, h := s.Width, s.Height
	if w <= 0 {
		w = DefaultPointWidth
	}
	if h <= 0 {
		h = DefaultPointHeight
	}
	vp := viewportFor(s.Viewport, bounds)
	jobs := make([]Job, 0, len(s.Points))
	for i, p := range s.Points {
		native, err := vp.ToNativePoint(p)
		if err != nil {
			return nil, err
		}
		if !native.In(bounds) {
			return nil, fmt.Errorf("point %d at %v lies outside the image: %w", i, native, imageproc.ErrProcessing)
		}
		jobs = append(jobs, Job{Index: i, Rect: imageproc.PointWindow(native, w, h, bounds)})
	}
	return jobs, nil
}

func viewportFor(v imageproc.Viewport, bounds image.Rectangle) imageproc.Viewport {
	if v.DisplayWidth == 0 && v.DisplayHeight == 0 {
		return imageproc.Identity(bounds)
	}
	if v.NativeWidth == 0 && v.NativeHeight == 0 {
		v.NativeWidth, v.NativeHeight = bounds.Dx(), bounds.Dy()
	}
	return v
}
