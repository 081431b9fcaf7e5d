package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Brownie44l1/corn-advisor-api/internal/classify"
	"github.com/Brownie44l1/corn-advisor-api/internal/fertilizer"
)

// NotCornLabel is the class some nutrient models use to reject non-corn
// images.
const NotCornLabel = "Not_Corn"

type NutrientHandler struct {
	pipeline  *classify.Pipeline
	maxUpload int64
	logger    *slog.Logger
}

type nutrientResponse struct {
	PredictedClass            string             `json:"predicted_class"`
	Confidence                float32            `json:"confidence"`
	Probabilities             []float32          `json:"probabilities"`
	IsCorn                    bool               `json:"is_corn"`
	Message                   string             `json:"message,omitempty"`
	MessageSI                 string             `json:"message_si,omitempty"`
	FertilizerRecommendations *fertilizer.Record `json:"fertilizer_recommendations"`
}

// NewNutrientRouter serves nutrient diagnosis. The pipeline may have no model,
// in which case /predict answers 500 and /health reports model_loaded false.
func NewNutrientRouter(p *classify.Pipeline, opts Options) http.Handler {
	opts = opts.withDefaults("nutrient")
	h := &NutrientHandler{
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

func (h *NutrientHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "Backend is running"})
}

func (h *NutrientHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"model_loaded": h.pipeline.Ready(),
	})
}

func (h *NutrientHandler) Predict(w http.ResponseWriter, r *http.Request) {
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

	resp := nutrientResponse{
		PredictedClass: res.Label,
		Confidence:     res.Confidence,
		Probabilities:  res.Probabilities,
		IsCorn:         true,
	}
	if res.Label == NotCornLabel && h.pipeline.HasClass(NotCornLabel) {
		resp.IsCorn = false
		resp.Message = fertilizer.NotCorn.EN
		resp.MessageSI = fertilizer.NotCorn.SI
	} else {
		rec := fertilizer.Lookup(res.Label)
		resp.FertilizerRecommendations = &rec
	}

	respondJSON(w, http.StatusOK, resp)
}
