package imageproc

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestViewportMapping(t *testing.T) {
	v := Viewport{NativeWidth: 2000, NativeHeight: 1000, DisplayWidth: 500, DisplayHeight: 250}

	p, err := v.ToNativePoint(image.Pt(100, 100))
	if err != nil {
		t.Fatalf("ToNativePoint failed: %v", err)
	}
	if p != image.Pt(400, 400) {
		t.Errorf("expected (400,400), got %v", p)
	}

	r, err := v.ToNativeRect(image.Rect(50, 60, 10, 20))
	if err != nil {
		t.Fatalf("ToNativeRect failed: %v", err)
	}
	if want := image.Rect(40, 80, 200, 240); r != want {
		t.Errorf("expected %v, got %v", want, r)
	}

	if _, err := (Viewport{NativeWidth: 10, NativeHeight: 10}).ToNativePoint(image.Pt(1, 1)); err == nil {
		t.Error("expected error for zero display size")
	}
}

func TestValidateSelection(t *testing.T) {
	tests := []struct {
		name    string
		rect    image.Rectangle
		wantErr bool
	}{
		{"large enough", image.Rect(0, 0, 20, 20), false},
		{"too narrow", image.Rect(0, 0, 19, 100), true},
		{"too short", image.Rect(0, 0, 100, 5), true},
		{"click", image.Rect(5, 5, 5, 5), true},
		{"reversed corners", image.Rect(100, 100, 40, 40), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSelection(tt.rect)
			if tt.wantErr && !errors.Is(err, ErrSelectionTooSmall) {
				t.Errorf("expected ErrSelectionTooSmall, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPointWindow(t *testing.T) {
	bounds := image.Rect(0, 0, 1000, 800)
	tests := []struct {
		name string
		p    image.Point
		want image.Rectangle
	}{
		{"centre", image.Pt(500, 400), image.Rect(380, 360, 620, 440)},
		{"top left corner", image.Pt(0, 0), image.Rect(0, 0, 240, 80)},
		{"bottom right corner", image.Pt(999, 799), image.Rect(760, 720, 1000, 800)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointWindow(tt.p, 240, 80, bounds); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	small := image.Rect(0, 0, 100, 50)
	if got := PointWindow(image.Pt(50, 25), 240, 80, small); got != small {
		t.Errorf("expected window clipped to %v, got %v", small, got)
	}
}

func TestSample(t *testing.T) {
	img := solid(200, 100, color.White)
	img.Set(150, 50, color.Black)

	out, err := Sample(img, image.Rect(100, 0, 300, 100))
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 100, 100) {
		t.Errorf("expected clipped 100x100 at origin, got %v", out.Bounds())
	}
	if r, _, _, _ := out.At(50, 50).RGBA(); r != 0 {
		t.Errorf("expected black pixel carried into sample")
	}

	if _, err := Sample(img, image.Rect(300, 300, 400, 400)); !errors.Is(err, ErrProcessing) {
		t.Errorf("expected ErrProcessing for out-of-bounds region, got %v", err)
	}
}

func TestEnhance(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 100; x++ {
			v := uint8(100 + x/2)
			img.Set(x, y, color.NRGBA{v, v, v, 255})
		}
	}

	e := &Enhancer{MinWidth: 0}
	out, err := e.Enhance(img)
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}
	if out.Bounds().Dx() != 100 {
		t.Errorf("expected width unchanged, got %d", out.Bounds().Dx())
	}
	// Stretched to the full range: the darkest column maps to 0 plus the
	// brightness shift, the lightest to 255.
	if out.GrayAt(99, 0).Y != 255 {
		t.Errorf("expected lightest pixel at 255, got %d", out.GrayAt(99, 0).Y)
	}
	if out.GrayAt(0, 0).Y >= out.GrayAt(99, 0).Y {
		t.Error("expected contrast preserved")
	}
}

func TestEnhanceUpscales(t *testing.T) {
	e := &Enhancer{MinWidth: 1200}
	out, err := e.Enhance(solid(400, 100, color.Gray{Y: 200}))
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}
	if out.Bounds().Dx() != 1200 || out.Bounds().Dy() != 300 {
		t.Errorf("expected 1200x300, got %v", out.Bounds())
	}

	out, err = e.Enhance(solid(1000, 100, color.White))
	if err != nil {
		t.Fatalf("Enhance failed: %v", err)
	}
	if out.Bounds().Dx() != 1000 {
		t.Errorf("expected no upscale above 80%% of min width, got %d", out.Bounds().Dx())
	}
}

func TestEnhanceRejectsEmpty(t *testing.T) {
	if _, err := NewEnhancer().Enhance(image.NewNRGBA(image.Rectangle{})); !errors.Is(err, ErrProcessing) {
		t.Errorf("expected ErrProcessing, got %v", err)
	}
}

func TestDecodeBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(30, 20, color.White)); err != nil {
		t.Fatal(err)
	}
	img, err := DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeBytes failed: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}

	if _, err := DecodeBytes([]byte("not an image")); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
	if _, err := DecodeBytes(nil); !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode for empty input, got %v", err)
	}
}
