// Package yield turns the six-field yield form into a feature row, runs the
// exported tree ensemble on it and explains the prediction with TreeSHAP.
package yield

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"sort"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrSchemaMismatch  = errors.New("feature row does not match model schema")
)

const leaf = -1

// Artifact is the on-disk JSON export of the fitted preprocessing and
// regression pipeline.
type Artifact struct {
	Preprocessor Preprocessor      `json:"preprocessor"`
	Model        Ensemble          `json:"model"`
	DisplayNames map[string]string `json:"display_names,omitempty"`
}

type Preprocessor struct {
	Numeric     NumericSpec     `json:"numeric"`
	Categorical CategoricalSpec `json:"categorical"`
}

// NumericSpec is a StandardScaler over Columns. Without Mean and Scale the
// columns pass through unchanged.
type NumericSpec struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean,omitempty"`
	Scale   []float64 `json:"scale,omitempty"`
}

// CategoricalSpec is a one-hot encoder. HandleUnknown is "error" (the
// default when empty) or "ignore", which encodes an unseen value as all zeros.
type CategoricalSpec struct {
	Columns       []string   `json:"columns"`
	Categories    [][]string `json:"categories"`
	HandleUnknown string     `json:"handle_unknown"`
}

type Ensemble struct {
	BaseValue  float64 `json:"base_value"`
	TreeWeight float64 `json:"tree_weight"`
	Trees      []Tree  `json:"trees"`
}

// Tree is a fitted regression tree in array form. Node 0 is the root and a
// child index of -1 marks a leaf.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
	Cover         []float64 `json:"cover"`
}

// Feature names one transformed column.
type Feature struct {
	Raw     string
	Display string
}

type Pipeline struct {
	numeric     NumericSpec
	categorical CategoricalSpec
	ensemble    Ensemble
	features    []Feature
	expected    float64
}

// Prediction is a point estimate plus its top feature attributions.
// BaseValue plus the SHAP values of all features equals Value.
type Prediction struct {
	Value         float64
	BaseValue     float64
	Contributions []Contribution
}

// LoadPipeline reads and validates the artifact at path.
func LoadPipeline(path string) (*Pipeline, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read yield model: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parse yield model %s: %w", path, err)
	}
	p, err := NewPipeline(a)
	if err != nil {
		return nil, fmt.Errorf("yield model %s: %w", path, err)
	}
	return p, nil
}

// NewPipeline validates a and precomputes feature names and the expected
// model output.
func NewPipeline(a Artifact) (*Pipeline, error) {
	num, cat := a.Preprocessor.Numeric, a.Preprocessor.Categorical
	if len(num.Columns)+len(cat.Columns) == 0 {
		return nil, errors.New("preprocessor has no columns")
	}
	if num.Mean != nil && len(num.Mean) != len(num.Columns) {
		return nil, fmt.Errorf("numeric mean has %d entries for %d columns", len(num.Mean), len(num.Columns))
	}
	if num.Scale != nil && len(num.Scale) != len(num.Columns) {
		return nil, fmt.Errorf("numeric scale has %d entries for %d columns", len(num.Scale), len(num.Columns))
	}
	if len(cat.Categories) != len(cat.Columns) {
		return nil, fmt.Errorf("%d category lists for %d categorical columns", len(cat.Categories), len(cat.Columns))
	}
	switch cat.HandleUnknown {
	case "":
		cat.HandleUnknown = "error"
	case "ignore", "error":
	default:
		return nil, fmt.Errorf("unsupported handle_unknown %q", cat.HandleUnknown)
	}

	ens := a.Model
	if len(ens.Trees) == 0 {
		return nil, errors.New("model has no trees")
	}
	if ens.TreeWeight == 0 {
		ens.TreeWeight = 1
	}

	p := &Pipeline{numeric: num, categorical: cat, ensemble: ens}
	p.features = featureNames(num, cat, a.DisplayNames)

	p.ensemble.Trees = make([]Tree, len(ens.Trees))
	for i, t := range ens.Trees {
		nt, err := t.normalized(len(p.features))
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		p.ensemble.Trees[i] = nt
	}

	if err := p.checkColumns(); err != nil {
		return nil, err
	}

	p.expected = ens.BaseValue
	for i := range p.ensemble.Trees {
		p.expected += ens.TreeWeight * p.ensemble.Trees[i].expectedValue()
	}
	return p, nil
}

// Features lists the transformed columns in model input order.
func (p *Pipeline) Features() []Feature {
	out := make([]Feature, len(p.features))
	copy(out, p.features)
	return out
}

// ExpectedValue is the mean model output over the training distribution.
func (p *Pipeline) ExpectedValue() float64 {
	return p.expected
}

// checkColumns confirms the transformer reads only columns BuildRow fills,
// each with the kind BuildRow gives it.
func (p *Pipeline) checkColumns() error {
	var unknown []string
	for _, cols := range [][]string{p.numeric.Columns, p.categorical.Columns} {
		for _, col := range cols {
			if !slices.Contains(Columns, col) {
				unknown = append(unknown, col)
			}
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: columns %v are not in the training schema", ErrSchemaMismatch, unknown)
	}
	return p.checkSchema(BuildRow(Request{}))
}

func (p *Pipeline) checkSchema(row Row) error {
	var missing []string
	for _, col := range p.numeric.Columns {
		if _, ok := row.Numeric[col]; !ok {
			missing = append(missing, col)
		}
	}
	for _, col := range p.categorical.Columns {
		if _, ok := row.Categorical[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing columns %v", ErrSchemaMismatch, missing)
	}
	return nil
}

// Transform applies the scaler and one-hot encoder to row.
func (p *Pipeline) Transform(row Row) ([]float64, error) {
	if err := p.checkSchema(row); err != nil {
		return nil, err
	}

	x := make([]float64, 0, len(p.features))
	for i, col := range p.numeric.Columns {
		v := row.Numeric[col]
		if p.numeric.Mean != nil {
			v -= p.numeric.Mean[i]
		}
		if p.numeric.Scale != nil && p.numeric.Scale[i] != 0 {
			v /= p.numeric.Scale[i]
		}
		x = append(x, v)
	}

	for i, col := range p.categorical.Columns {
		v := row.Categorical[col]
		found := false
		for _, c := range p.categorical.Categories[i] {
			if c == v {
				x = append(x, 1)
				found = true
			} else {
				x = append(x, 0)
			}
		}
		if !found && p.categorical.HandleUnknown == "error" {
			return nil, fmt.Errorf("%w: %s=%q", ErrUnknownCategory, col, v)
		}
	}
	return x, nil
}

// Predict transforms row, evaluates the ensemble and attributes the result.
func (p *Pipeline) Predict(row Row) (*Prediction, error) {
	x, err := p.Transform(row)
	if err != nil {
		return nil, err
	}

	value := p.ensemble.BaseValue
	for i := range p.ensemble.Trees {
		value += p.ensemble.TreeWeight * p.ensemble.Trees[i].predict(x)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("model produced non-finite prediction %v", value)
	}

	return &Prediction{
		Value:         value,
		BaseValue:     p.expected,
		Contributions: p.topContributions(p.Explain(x), TopFeatures),
	}, nil
}

// Explain returns one SHAP value per transformed feature of x.
func (p *Pipeline) Explain(x []float64) []float64 {
	phi := make([]float64, len(p.features))
	for i := range p.ensemble.Trees {
		p.ensemble.Trees[i].shap(x, phi, p.ensemble.TreeWeight)
	}
	return phi
}

// normalized checks the tree structure and rewrites internal cover values
// as the sum of their children.
func (t Tree) normalized(nFeatures int) (Tree, error) {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return t, errors.New("no nodes")
	}
	for name, l := range map[string]int{
		"children_right": len(t.ChildrenRight),
		"feature":        len(t.Feature),
		"threshold":      len(t.Threshold),
		"value":          len(t.Value),
		"cover":          len(t.Cover),
	} {
		if l != n {
			return t, fmt.Errorf("%s has %d entries, want %d", name, l, n)
		}
	}

	out := Tree{
		ChildrenLeft:  t.ChildrenLeft,
		ChildrenRight: t.ChildrenRight,
		Feature:       t.Feature,
		Threshold:     t.Threshold,
		Value:         t.Value,
		Cover:         make([]float64, n),
	}
	copy(out.Cover, t.Cover)

	for i := n - 1; i >= 0; i-- {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if (l == leaf) != (r == leaf) {
			return t, fmt.Errorf("node %d has one child", i)
		}
		if l == leaf {
			if !(t.Cover[i] > 0) {
				return t, fmt.Errorf("leaf %d has cover %v", i, t.Cover[i])
			}
			continue
		}
		if l <= i || r <= i || l >= n || r >= n {
			return t, fmt.Errorf("node %d has children %d,%d", i, l, r)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return t, fmt.Errorf("node %d splits on feature %d of %d", i, f, nFeatures)
		}
		out.Cover[i] = out.Cover[l] + out.Cover[r]
	}
	return out, nil
}

// goesLeft mirrors the fitted trees, which compare float32 inputs.
func goesLeft(v, threshold float64) bool {
	return float64(float32(v)) <= threshold
}

func (t *Tree) predict(x []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if goesLeft(x[t.Feature[node]], t.Threshold[node]) {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

func (t *Tree) expectedValue() float64 {
	var walk func(node int) float64
	walk = func(node int) float64 {
		l, r := t.ChildrenLeft[node], t.ChildrenRight[node]
		if l == leaf {
			return t.Value[node]
		}
		return (walk(l)*t.Cover[l] + walk(r)*t.Cover[r]) / t.Cover[node]
	}
	return walk(0)
}
