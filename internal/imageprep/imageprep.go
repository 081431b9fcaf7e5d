// Package imageprep turns uploaded image bytes into model input tensors.
package imageprep

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage reports bytes that cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

const DefaultSize = 224

// DefaultMaxPixels caps the declared width x height of an upload. A small
// compressed file can declare a bitmap far larger than the upload itself.
const DefaultMaxPixels = 50_000_000

type Layout string

const (
	// NHWC is batch x height x width x channels (Keras).
	NHWC Layout = "NHWC"
	// NCHW is batch x channels x height x width (PyTorch exports).
	NCHW Layout = "NCHW"
)

// Tensor is a dense float32 array in row-major order.
type Tensor struct {
	Shape []int64
	Data  []float32
}

type Preprocessor struct {
	size      int
	layout    Layout
	maxPixels int64
}

// New returns a preprocessor for size x size inputs. maxPixels <= 0 means
// DefaultMaxPixels.
func New(size int, layout Layout, maxPixels int64) (*Preprocessor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %d", size)
	}
	switch layout {
	case "":
		layout = NHWC
	case NHWC, NCHW:
	default:
		return nil, fmt.Errorf("unsupported layout %q", layout)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Preprocessor{size: size, layout: layout, maxPixels: maxPixels}, nil
}

// Shape is the tensor shape Process produces.
func (p *Preprocessor) Shape() []int64 {
	s := int64(p.size)
	if p.layout == NCHW {
		return []int64{1, 3, s, s}
	}
	return []int64{1, s, s, 3}
}

// Process decodes data, drops alpha, resizes to a size x size square and
// scales every channel into [0, 1].
func (p *Preprocessor) Process(data []byte) (Tensor, error) {
	if len(data) == 0 {
		return Tensor{}, fmt.Errorf("%w: empty upload", ErrInvalidImage)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > p.maxPixels {
		return Tensor{}, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidImage, cfg.Width, cfg.Height, p.maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Tensor{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return Tensor{}, fmt.Errorf("%w: zero-sized image", ErrInvalidImage)
	}

	return p.fromImage(img), nil
}

func (p *Preprocessor) fromImage(img image.Image) Tensor {
	size := uint(p.size)
	resized := resize.Resize(size, size, opaque(img), resize.Bicubic)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	plane := width * height
	data := make([]float32, 3*plane)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			rgb := [3]float32{
				float32(r>>8) / 255.0,
				float32(g>>8) / 255.0,
				float32(b>>8) / 255.0,
			}

			pixel := y*width + x
			for c, v := range rgb {
				if p.layout == NCHW {
					data[c*plane+pixel] = v
				} else {
					data[pixel*3+c] = v
				}
			}
		}
	}

	return Tensor{Shape: p.Shape(), Data: data}
}

// opaque copies img into an RGBA bitmap with alpha forced to 255. Color
// values are taken unpremultiplied, so transparent pixels keep their RGB.
func opaque(img image.Image) *image.RGBA {
	src := imaging.Clone(img)
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
