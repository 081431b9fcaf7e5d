package model

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

type fakeRunner struct {
	output []float32
	err    error
	calls  int
	closed bool
}

func (f *fakeRunner) Run(input []float32) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]float32, len(f.output))
	copy(out, f.output)
	return out, nil
}

func (f *fakeRunner) Close() { f.closed = true }

var nutrientClasses = []string{"Healthy", "KAB", "NAB", "PAB", "ZNAB"}

func newTestClassifier(t *testing.T, output []float32) (*Classifier, *fakeRunner) {
	t.Helper()
	runner := &fakeRunner{output: output}
	c, err := NewClassifier(runner, Metadata{Classes: nutrientClasses, ImageSize: 4})
	if err != nil {
		t.Fatalf("NewClassifier() failed: %v", err)
	}
	return c, runner
}

func TestPredictSelectsArgMax(t *testing.T) {
	c, _ := newTestClassifier(t, []float32{0.05, 0.1, 0.7, 0.1, 0.05})

	res, err := c.Predict(make([]float32, c.InputSize()))
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}

	if res.Label != "NAB" {
		t.Errorf("Label = %q, want NAB", res.Label)
	}
	if res.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want 0.7", res.Confidence)
	}
	if len(res.Probabilities) != len(nutrientClasses) {
		t.Fatalf("len(Probabilities) = %d, want %d", len(res.Probabilities), len(nutrientClasses))
	}
	if idx := c.Metadata.Index(res.Label); argmax(res.Probabilities) != idx {
		t.Errorf("argmax %d does not match label index %d", argmax(res.Probabilities), idx)
	}
}

func TestPredictTieGoesToLowestIndex(t *testing.T) {
	c, _ := newTestClassifier(t, []float32{0.1, 0.4, 0.4, 0.05, 0.05})

	res, err := c.Predict(make([]float32, c.InputSize()))
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}
	if res.Label != "KAB" {
		t.Errorf("Label = %q, want KAB", res.Label)
	}
}

func TestPredictRejectsWrongInputSize(t *testing.T) {
	c, runner := newTestClassifier(t, []float32{1, 0, 0, 0, 0})

	if _, err := c.Predict(make([]float32, 3)); err == nil {
		t.Error("expected error for short input")
	}
	if runner.calls != 0 {
		t.Error("runner should not be called for invalid input")
	}
}

func TestPredictRejectsOutputLengthMismatch(t *testing.T) {
	c, _ := newTestClassifier(t, []float32{0.5, 0.5})

	if _, err := c.Predict(make([]float32, c.InputSize())); err == nil {
		t.Error("expected error when output length differs from class count")
	}
}

func TestPredictPropagatesRunnerError(t *testing.T) {
	runErr := errors.New("session exploded")
	runner := &fakeRunner{err: runErr}
	c, err := NewClassifier(runner, Metadata{Classes: nutrientClasses, ImageSize: 4})
	if err != nil {
		t.Fatalf("NewClassifier() failed: %v", err)
	}

	if _, err := c.Predict(make([]float32, c.InputSize())); !errors.Is(err, runErr) {
		t.Errorf("error = %v, want %v", err, runErr)
	}
}

func TestPredictNaN(t *testing.T) {
	c, _ := newTestClassifier(t, []float32{0.1, float32(math.NaN()), 0.3, 0.3, 0.3})

	if _, err := c.Predict(make([]float32, c.InputSize())); err == nil {
		t.Error("expected error for NaN output")
	}
}

func TestPredictSoftmax(t *testing.T) {
	runner := &fakeRunner{output: []float32{1, 3, 0, -2}}
	c, err := NewClassifier(runner, Metadata{
		Classes:      []string{"armyworm", "healthy", "leaf_blight", "zonocerus"},
		ImageSize:    4,
		ApplySoftmax: true,
	})
	if err != nil {
		t.Fatalf("NewClassifier() failed: %v", err)
	}

	res, err := c.Predict(make([]float32, c.InputSize()))
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}
	if res.Label != "healthy" {
		t.Errorf("Label = %q, want healthy", res.Label)
	}

	var sum float64
	for _, p := range res.Probabilities {
		if p < 0 || p > 1 {
			t.Errorf("probability %v out of range", p)
		}
		sum += float64(p)
	}
	if math.Abs(sum-1) > 1e-5 {
		t.Errorf("probabilities sum to %v, want 1", sum)
	}
}

func TestPredictDeterministic(t *testing.T) {
	c, _ := newTestClassifier(t, []float32{0.2, 0.2, 0.2, 0.3, 0.1})
	input := make([]float32, c.InputSize())

	first, _ := c.Predict(input)
	second, _ := c.Predict(input)
	if first.Label != second.Label || first.Confidence != second.Confidence {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
	for i := range first.Probabilities {
		if first.Probabilities[i] != second.Probabilities[i] {
			t.Errorf("probability %d differs", i)
		}
	}
}

func TestNewClassifierValidatesMetadata(t *testing.T) {
	tests := map[string]Metadata{
		"no classes":        {ImageSize: 224},
		"duplicate classes": {Classes: []string{"a", "a"}},
		"empty class":       {Classes: []string{"a", ""}},
		"output mismatch":   {Classes: nutrientClasses, OutputShape: []int64{1, 4}},
		"input mismatch":    {Classes: nutrientClasses, ImageSize: 224, InputShape: []int64{1, 3, 224, 224}},
		"bad layout":        {Classes: nutrientClasses, Layout: "CHWN"},
	}

	for name, md := range tests {
		if _, err := NewClassifier(&fakeRunner{}, md); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}

	if _, err := NewClassifier(nil, Metadata{Classes: nutrientClasses}); !errors.Is(err, ErrModelNotLoaded) {
		t.Errorf("nil runner error = %v, want ErrModelNotLoaded", err)
	}
}

func TestNewClassifierDefaults(t *testing.T) {
	c, err := NewClassifier(&fakeRunner{}, Metadata{Classes: nutrientClasses, Layout: "nchw"})
	if err != nil {
		t.Fatalf("NewClassifier() failed: %v", err)
	}
	md := c.Metadata
	if md.ImageSize != 224 || md.InputName != "input" || md.OutputName != "output" {
		t.Errorf("defaults not applied: %+v", md)
	}
	if !equalShape(md.InputShape, []int64{1, 3, 224, 224}) {
		t.Errorf("InputShape = %v", md.InputShape)
	}
	if !equalShape(md.OutputShape, []int64{1, 5}) {
		t.Errorf("OutputShape = %v", md.OutputShape)
	}
}

func TestReadMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model_metadata.json")
	body := `{"classes":["armyworm","healthy","leaf_blight","zonocerus"],"image_size":224,"input_shape":[1,224,224,3],"output_shape":[1,4]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	md, err := ReadMetadata(path)
	if err != nil {
		t.Fatalf("ReadMetadata() failed: %v", err)
	}
	if !md.HasClass("leaf_blight") || md.HasClass("Not_Corn") {
		t.Errorf("unexpected classes %v", md.Classes)
	}

	if err := os.WriteFile(path, []byte(`{"classes":["a","b"],"output_shape":[1,3]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadMetadata(path); err == nil {
		t.Error("expected error for class/output mismatch")
	}
}

func TestLoadClassifierMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadClassifier(filepath.Join(dir, "missing.onnx"), filepath.Join(dir, "meta.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestCloseClosesRunner(t *testing.T) {
	c, runner := newTestClassifier(t, []float32{1, 0, 0, 0, 0})
	c.Close()
	if !runner.closed {
		t.Error("Close() should close the runner")
	}
}

func argmax(v []float32) int {
	best := 0
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
