package imageprep

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"strings"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// at returns the element at the given index.
func (t Tensor) at(idx ...int64) float32 {
	var off int64
	for i, v := range idx {
		off = off*t.Shape[i] + v
	}
	return t.Data[off]
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func TestProcessShapeAndRange(t *testing.T) {
	p, err := New(DefaultSize, NHWC, 0)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	inputs := map[string][]byte{
		"png green 10x10":  encodePNG(t, solidImage(10, 10, color.NRGBA{G: 255, A: 255})),
		"jpeg gradient":    encodeJPEG(t, gradientImage(300, 180)),
		"png gradient big": encodePNG(t, gradientImage(640, 480)),
	}

	for name, data := range inputs {
		tensor, err := p.Process(data)
		if err != nil {
			t.Fatalf("%s: Process() failed: %v", name, err)
		}

		want := []int64{1, 224, 224, 3}
		if len(tensor.Shape) != len(want) {
			t.Fatalf("%s: shape = %v, want %v", name, tensor.Shape, want)
		}
		for i := range want {
			if tensor.Shape[i] != want[i] {
				t.Fatalf("%s: shape = %v, want %v", name, tensor.Shape, want)
			}
		}
		if len(tensor.Data) != 224*224*3 {
			t.Fatalf("%s: len(data) = %d", name, len(tensor.Data))
		}
		for i, v := range tensor.Data {
			if v < 0 || v > 1 || math.IsNaN(float64(v)) {
				t.Fatalf("%s: data[%d] = %v out of [0,1]", name, i, v)
			}
		}
	}
}

func TestProcessSolidColorValues(t *testing.T) {
	p, _ := New(DefaultSize, NHWC, 0)

	tensor, err := p.Process(encodePNG(t, solidImage(10, 10, color.NRGBA{G: 255, A: 255})))
	if err != nil {
		t.Fatalf("Process() failed: %v", err)
	}

	const eps = 1.0 / 255
	for _, pos := range [][2]int64{{0, 0}, {111, 57}, {223, 223}} {
		r := tensor.at(0, pos[0], pos[1], 0)
		g := tensor.at(0, pos[0], pos[1], 1)
		b := tensor.at(0, pos[0], pos[1], 2)
		if r > eps || b > eps || g < 1-eps {
			t.Errorf("pixel %v = (%v, %v, %v), want pure green", pos, r, g, b)
		}
	}
}

func TestProcessDropsAlphaWithoutDarkening(t *testing.T) {
	p, _ := New(8, NHWC, 0)

	// Fully transparent red must come out red, the way an RGB conversion drops alpha.
	tensor, err := p.Process(encodePNG(t, solidImage(8, 8, color.NRGBA{R: 255, A: 0})))
	if err != nil {
		t.Fatalf("Process() failed: %v", err)
	}
	if r := tensor.at(0, 3, 3, 0); r < 0.99 {
		t.Errorf("red channel = %v, want ~1", r)
	}
}

func TestProcessNCHWLayout(t *testing.T) {
	p, err := New(16, NCHW, 0)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	tensor, err := p.Process(encodePNG(t, solidImage(4, 4, color.NRGBA{B: 255, A: 255})))
	if err != nil {
		t.Fatalf("Process() failed: %v", err)
	}
	if got := tensor.Shape; got[1] != 3 || got[2] != 16 || got[3] != 16 {
		t.Fatalf("shape = %v, want [1 3 16 16]", got)
	}
	if b := tensor.at(0, 2, 5, 5); b < 0.99 {
		t.Errorf("blue plane = %v, want ~1", b)
	}
	if r := tensor.at(0, 0, 5, 5); r > 0.01 {
		t.Errorf("red plane = %v, want ~0", r)
	}
}

func TestProcessInvalidBytes(t *testing.T) {
	p, _ := New(DefaultSize, NHWC, 0)

	for name, data := range map[string][]byte{
		"empty":     nil,
		"text":      []byte("definitely not an image"),
		"truncated": encodePNG(t, solidImage(10, 10, color.White))[:20],
	} {
		_, err := p.Process(data)
		if !errors.Is(err, ErrInvalidImage) {
			t.Errorf("%s: error = %v, want ErrInvalidImage", name, err)
		}
	}
}

func TestProcessRejectsOversizedImage(t *testing.T) {
	p, _ := New(DefaultSize, NHWC, 0)

	// 64M declared pixels compress to well under the upload limit.
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, image.NewGray(image.Rect(0, 0, 8000, 8000))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	if buf.Len() > 10<<20 {
		t.Fatalf("encoded size %d exceeds the upload limit", buf.Len())
	}

	_, err := p.Process(buf.Bytes())
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("error = %v, want ErrInvalidImage", err)
	}
	if !strings.Contains(err.Error(), "8000x8000") {
		t.Errorf("error %q should report the declared size", err)
	}
}

func TestProcessMaxPixels(t *testing.T) {
	p, _ := New(8, NHWC, 100)

	if _, err := p.Process(encodePNG(t, solidImage(10, 10, color.White))); err != nil {
		t.Errorf("10x10 at a 100 pixel cap: %v", err)
	}
	if _, err := p.Process(encodePNG(t, solidImage(11, 10, color.White))); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("11x10 at a 100 pixel cap: error = %v, want ErrInvalidImage", err)
	}
}

func TestProcessDeterministic(t *testing.T) {
	p, _ := New(32, NHWC, 0)
	data := encodeJPEG(t, gradientImage(50, 70))

	first, err := p.Process(data)
	if err != nil {
		t.Fatalf("Process() failed: %v", err)
	}
	second, _ := p.Process(data)
	for i := range first.Data {
		if first.Data[i] != second.Data[i] {
			t.Fatalf("data[%d] differs between runs: %v vs %v", i, first.Data[i], second.Data[i])
		}
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(0, NHWC, 0); err == nil {
		t.Error("expected error for zero size")
	}
	if _, err := New(224, "HWCN", 0); err == nil {
		t.Error("expected error for unknown layout")
	}
	p, err := New(224, "", 0)
	if err != nil {
		t.Fatalf("New() with empty layout failed: %v", err)
	}
	if p.layout != NHWC {
		t.Errorf("default layout = %s, want NHWC", p.layout)
	}
}
