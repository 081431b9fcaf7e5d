// Package handlers exposes the nutrient, pest and yield services over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Brownie44l1/corn-advisor-api/internal/imageprep"
	"github.com/Brownie44l1/corn-advisor-api/internal/metrics"
	"github.com/Brownie44l1/corn-advisor-api/internal/model"
	"github.com/Brownie44l1/corn-advisor-api/internal/yield"
)

const DefaultMaxUploadBytes = 10 << 20

var errUploadTooLarge = errors.New("file too large")

// Options are shared by every service router.
type Options struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	MaxUploadBytes int64
}

func (o Options) withDefaults(service string) Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Metrics == nil {
		o.Metrics = metrics.New(service)
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return o
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

// respondPredictionError maps validation failures to 400 and hides
// everything else behind a generic 500.
func respondPredictionError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, imageprep.ErrInvalidImage),
		errors.Is(err, yield.ErrInvalidRequest),
		errors.Is(err, yield.ErrUnknownCategory):
		logger.Warn("validation error", "error", err, "path", r.URL.Path)
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrModelNotLoaded):
		logger.Error("prediction requested without a model", "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "model not loaded")
	default:
		logger.Error("prediction error", "error", err, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "Prediction failed")
	}
}

// readUpload returns the bytes of the multipart file field "file", falling
// back to "image". Every error it returns is the client's fault.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", fmt.Errorf("%w: limit is %d bytes", errUploadTooLarge, limit)
		}
		return nil, "", fmt.Errorf("failed to parse form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		file, header, err = r.FormFile("image")
	}
	if err != nil {
		return nil, "", errors.New("no file provided, use 'file' as the form field name")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	return data, header.Filename, nil
}
