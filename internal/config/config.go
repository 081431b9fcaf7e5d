package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Service names, also used as metric labels and cache key prefixes.
const (
	Nutrient = "nutrient"
	Pest     = "pest"
	Yield    = "yield"
)

var defaultPorts = map[string]string{
	Nutrient: "8000",
	Pest:     "8001",
	Yield:    "8002",
}

type Config struct {
	Service string
	Port    string

	// Image services.
	ModelPath    string
	MetadataPath string
	OrtLibPath   string

	// Yield service.
	YieldModelPath string

	RedisURL       string
	RedisPassword  string
	CacheTTL       time.Duration
	MaxUploadBytes int64
	MaxImagePixels int64

	LogLevel    string
	OTELEnabled bool
}

// Load reads .env (if present) and the environment for the given service.
func Load(service string) (Config, error) {
	if _, ok := defaultPorts[service]; !ok {
		return Config{}, fmt.Errorf("unknown service %q", service)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	root, err := projectRoot()
	if err != nil {
		return Config{}, err
	}
	modelDir := filepath.Join(root, "models", service)

	cfg := Config{
		Service:        service,
		Port:           getEnv("PORT", defaultPorts[service]),
		ModelPath:      getEnv("MODEL_PATH", filepath.Join(modelDir, "model.onnx")),
		MetadataPath:   getEnv("METADATA_PATH", filepath.Join(modelDir, "model_metadata.json")),
		OrtLibPath:     os.Getenv("ORT_LIB_PATH"),
		YieldModelPath: getEnv("YIELD_MODEL_PATH", filepath.Join(modelDir, "corn_yield_model.json")),
		RedisURL:       os.Getenv("REDIS_URL"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		OTELEnabled:    getEnvBool("OTEL_ENABLED", false),
	}

	cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}

	cfg.MaxUploadBytes, err = strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", strconv.Itoa(10<<20)), 10, 64)
	if err != nil || cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", os.Getenv("MAX_UPLOAD_BYTES"))
	}

	cfg.MaxImagePixels, err = strconv.ParseInt(getEnv("MAX_IMAGE_PIXELS", "50000000"), 10, 64)
	if err != nil || cfg.MaxImagePixels <= 0 {
		return Config{}, fmt.Errorf("invalid MAX_IMAGE_PIXELS %q", os.Getenv("MAX_IMAGE_PIXELS"))
	}

	return cfg, nil
}

// projectRoot returns the working directory, stepping out of cmd/<name> when
// the binary is started from its own source directory.
func projectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	if filepath.Base(filepath.Dir(wd)) == "cmd" {
		return filepath.Join(wd, "..", ".."), nil
	}
	return wd, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
