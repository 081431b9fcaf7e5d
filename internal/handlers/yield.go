package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Brownie44l1/corn-advisor-api/internal/metrics"
	"github.com/Brownie44l1/corn-advisor-api/internal/yield"
)

const maxYieldBodyBytes = 64 << 10

type YieldHandler struct {
	pipeline *yield.Pipeline
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

type yieldResponse struct {
	PredictedYield          float64              `json:"predicted_yield_kg_per_acre"`
	BaseValue               float64              `json:"base_value"`
	TopContributingFeatures []yield.Contribution `json:"top_contributing_features"`
}

func NewYieldRouter(p *yield.Pipeline, opts Options) http.Handler {
	opts = opts.withDefaults("yield")
	h := &YieldHandler{
		pipeline: p,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}

	r := newRouter(opts)
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Post("/predict_yield", h.PredictYield)
	return r
}

func (h *YieldHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Corn Yield API is running"})
}

func (h *YieldHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"model_loaded": h.pipeline != nil,
	})
}

func (h *YieldHandler) PredictYield(w http.ResponseWriter, r *http.Request) {
	var req yield.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxYieldBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondPredictionError(w, r, h.logger, err)
		return
	}

	start := time.Now()
	pred, err := h.pipeline.Predict(yield.BuildRow(req))
	if err != nil {
		respondPredictionError(w, r, h.logger, err)
		return
	}
	elapsed := time.Since(start)

	h.metrics.ObserveInference("yield", elapsed)
	h.logger.Info("yield prediction complete",
		"district", req.District,
		"variety", req.Variety,
		"predicted_yield", pred.Value,
		"duration", elapsed.String(),
	)

	respondJSON(w, http.StatusOK, yieldResponse{
		PredictedYield:          pred.Value,
		BaseValue:               pred.BaseValue,
		TopContributingFeatures: pred.Contributions,
	})
}
