package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrModelNotLoaded = errors.New("model not loaded")

// Metadata is persisted next to each ONNX graph. Classes is ordered by output index.
type Metadata struct {
	InputShape   []int64  `json:"input_shape"`
	OutputShape  []int64  `json:"output_shape"`
	Classes      []string `json:"classes"`
	ImageSize    int      `json:"image_size"`
	Layout       string   `json:"layout"`
	InputName    string   `json:"input_name"`
	OutputName   string   `json:"output_name"`
	ApplySoftmax bool     `json:"apply_softmax"`
}

// InferenceResult is the outcome of one forward pass.
type InferenceResult struct {
	Label         string    `json:"label"`
	Confidence    float32   `json:"confidence"`
	Probabilities []float32 `json:"probabilities"`
}

// Index returns the position of label in the class list, or -1.
func (m Metadata) Index(label string) int {
	for i, c := range m.Classes {
		if c == label {
			return i
		}
	}
	return -1
}

// HasClass reports whether the model can emit label.
func (m Metadata) HasClass(label string) bool {
	return m.Index(label) >= 0
}

// applyDefaults fills shapes and tensor names that older metadata files omit.
func (m *Metadata) applyDefaults() {
	if m.Layout == "" {
		m.Layout = "NHWC"
	}
	m.Layout = strings.ToUpper(m.Layout)
	if m.ImageSize == 0 {
		m.ImageSize = 224
	}
	if m.InputName == "" {
		m.InputName = "input"
	}
	if m.OutputName == "" {
		m.OutputName = "output"
	}
	s := int64(m.ImageSize)
	if len(m.InputShape) == 0 {
		if m.Layout == "NCHW" {
			m.InputShape = []int64{1, 3, s, s}
		} else {
			m.InputShape = []int64{1, s, s, 3}
		}
	}
	if len(m.OutputShape) == 0 {
		m.OutputShape = []int64{1, int64(len(m.Classes))}
	}
}

// validate checks that the class list, output shape and input shape agree.
func (m Metadata) validate() error {
	if len(m.Classes) == 0 {
		return errors.New("metadata has no classes")
	}
	seen := make(map[string]bool, len(m.Classes))
	for _, c := range m.Classes {
		if c == "" {
			return errors.New("metadata has an empty class name")
		}
		if seen[c] {
			return fmt.Errorf("duplicate class %q", c)
		}
		seen[c] = true
	}

	if len(m.OutputShape) < 2 || m.OutputShape[0] != 1 {
		return fmt.Errorf("output shape %v must be [1, n]", m.OutputShape)
	}
	if n := volume(m.OutputShape[1:]); n != int64(len(m.Classes)) {
		return fmt.Errorf("output shape %v holds %d values but %d classes are listed", m.OutputShape, n, len(m.Classes))
	}

	s := int64(m.ImageSize)
	var want []int64
	switch m.Layout {
	case "NHWC":
		want = []int64{1, s, s, 3}
	case "NCHW":
		want = []int64{1, 3, s, s}
	default:
		return fmt.Errorf("unsupported layout %q", m.Layout)
	}
	if !equalShape(m.InputShape, want) {
		return fmt.Errorf("input shape %v does not match %s image of size %d", m.InputShape, m.Layout, m.ImageSize)
	}
	return nil
}

func volume(shape []int64) int64 {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}

func equalShape(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
