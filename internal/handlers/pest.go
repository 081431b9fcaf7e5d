package handlers

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/Brownie44l1/corn-advisor-api/internal/classify"
)

type PestHandler struct {
	pipeline  *classify.Pipeline
	maxUpload int64
	logger    *slog.Logger
}

type pestResponse struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

func NewPestRouter(p *classify.Pipeline, opts Options) http.Handler {
	opts = opts.withDefaults("pest")
	h := &PestHandler{
		pipeline:  p,
		maxUpload: opts.MaxUploadBytes,
		logger:    opts.Logger,
	}

	r := newRouter(opts)
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Post("/predict", h.Predict)
	return r
}

func (h *PestHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "Backend running"})
}

func (h *PestHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"model_loaded": h.pipeline.Ready(),
	})
}

// Predict reports confidence as a percentage rounded to two decimals.
func (h *PestHandler) Predict(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Info("received prediction request", "filename", filename, "bytes", len(data))

	res, err := h.pipeline.Classify(r.Context(), data)
	if err != nil {
		respondPredictionError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, pestResponse{
		Prediction: res.Label,
		Confidence: percent(res.Confidence),
	})
}

func percent(p float32) float64 {
	return math.Round(float64(p)*100*100) / 100
}
