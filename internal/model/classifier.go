package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Classifier maps a model's raw output vector onto its class list.
type Classifier struct {
	runner   Runner
	Metadata Metadata
}

// LoadClassifier reads the metadata, validates it and opens the ONNX graph.
// InitRuntime must have been called first.
func LoadClassifier(modelPath, metadataPath string) (*Classifier, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file not found: %s: %w", modelPath, err)
	}

	md, err := ReadMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	runner, err := newONNXRunner(modelPath, md)
	if err != nil {
		return nil, err
	}
	return &Classifier{runner: runner, Metadata: md}, nil
}

// ReadMetadata parses and validates a metadata file.
func ReadMetadata(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	var md Metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	md.applyDefaults()
	if err := md.validate(); err != nil {
		return Metadata{}, fmt.Errorf("invalid metadata %s: %w", path, err)
	}
	return md, nil
}

// NewClassifier wraps an already opened runner.
func NewClassifier(runner Runner, md Metadata) (*Classifier, error) {
	if runner == nil {
		return nil, ErrModelNotLoaded
	}
	md.applyDefaults()
	if err := md.validate(); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}
	return &Classifier{runner: runner, Metadata: md}, nil
}

// InputSize is the number of float32 values one forward pass consumes.
func (c *Classifier) InputSize() int {
	return int(volume(c.Metadata.InputShape))
}

// Predict runs one forward pass and selects the arg-max class. Ties go to
// the lowest index.
func (c *Classifier) Predict(input []float32) (*InferenceResult, error) {
	if len(input) != c.InputSize() {
		return nil, fmt.Errorf("expected %d input values, got %d", c.InputSize(), len(input))
	}

	output, err := c.runner.Run(input)
	if err != nil {
		return nil, err
	}
	if len(output) != len(c.Metadata.Classes) {
		return nil, fmt.Errorf("model returned %d values for %d classes", len(output), len(c.Metadata.Classes))
	}
	if c.Metadata.ApplySoftmax {
		output = softmax(output)
	}

	maxIdx := 0
	for i, val := range output {
		if math.IsNaN(float64(val)) {
			return nil, fmt.Errorf("model returned NaN for class %q", c.Metadata.Classes[i])
		}
		if val > output[maxIdx] {
			maxIdx = i
		}
	}

	return &InferenceResult{
		Label:         c.Metadata.Classes[maxIdx],
		Confidence:    output[maxIdx],
		Probabilities: output,
	}, nil
}

func (c *Classifier) Close() {
	if c.runner != nil {
		c.runner.Close()
	}
}

func softmax(logits []float32) []float32 {
	maxVal := logits[0]
	for _, v := range logits[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	out := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - maxVal))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}
