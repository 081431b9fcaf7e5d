// Package classify composes image preprocessing, the loaded classifier and
// the optional result cache into a single request-level operation.
package classify

import (
	"context"
	"log/slog"
	"time"

	"github.com/Brownie44l1/corn-advisor-api/internal/cache"
	"github.com/Brownie44l1/corn-advisor-api/internal/imageprep"
	"github.com/Brownie44l1/corn-advisor-api/internal/metrics"
	"github.com/Brownie44l1/corn-advisor-api/internal/model"
)

type Pipeline struct {
	service    string
	prep       *imageprep.Preprocessor
	classifier *model.Classifier
	cache      cache.Cache
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Options are optional collaborators. Nil fields are skipped, except
// Logger which defaults to slog.Default().
type Options struct {
	Cache   cache.Cache
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// MaxPixels caps the declared size of an upload; 0 means
	// imageprep.DefaultMaxPixels.
	MaxPixels int64
}

// New builds a pipeline whose preprocessor follows the classifier metadata.
// A nil classifier yields a pipeline that answers ErrModelNotLoaded.
func New(service string, classifier *model.Classifier, opts Options) (*Pipeline, error) {
	p := &Pipeline{
		service:    service,
		classifier: classifier,
		cache:      opts.Cache,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	if classifier != nil {
		md := classifier.Metadata
		prep, err := imageprep.New(md.ImageSize, imageprep.Layout(md.Layout), opts.MaxPixels)
		if err != nil {
			return nil, err
		}
		p.prep = prep
	}
	return p, nil
}

// Ready reports whether a model is loaded.
func (p *Pipeline) Ready() bool {
	return p.classifier != nil
}

// Classes returns the class list in output order.
func (p *Pipeline) Classes() []string {
	if p.classifier == nil {
		return nil
	}
	return p.classifier.Metadata.Classes
}

// HasClass reports whether the loaded model can emit label.
func (p *Pipeline) HasClass(label string) bool {
	return p.classifier != nil && p.classifier.Metadata.HasClass(label)
}

// Classify decodes data and runs it through the model. Undecodable input
// returns an error wrapping imageprep.ErrInvalidImage.
func (p *Pipeline) Classify(ctx context.Context, data []byte) (*model.InferenceResult, error) {
	if p.classifier == nil {
		return nil, model.ErrModelNotLoaded
	}

	key := cache.Key(p.service, data)
	if p.cache != nil {
		res, ok, err := p.cache.Get(ctx, key)
		if err != nil {
			p.logger.Warn("result cache read failed", "error", err)
		} else if ok {
			if p.metrics != nil {
				p.metrics.CacheHit()
			}
			return res, nil
		}
	}

	start := time.Now()
	tensor, err := p.prep.Process(data)
	if err != nil {
		return nil, err
	}

	res, err := p.classifier.Predict(tensor.Data)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	if p.metrics != nil {
		p.metrics.ObserveInference(res.Label, elapsed)
	}
	p.logger.Info("prediction complete",
		"label", res.Label,
		"confidence", res.Confidence,
		"duration", elapsed.String(),
	)

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, res); err != nil {
			p.logger.Warn("result cache write failed", "error", err)
		}
	}
	return res, nil
}

func (p *Pipeline) Close() {
	if p.classifier != nil {
		p.classifier.Close()
	}
	if p.cache != nil {
		_ = p.cache.Close()
	}
}
