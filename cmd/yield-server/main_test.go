package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Brownie44l1/corn-advisor-api/internal/config"
)

const stumpArtifact = `{
  "preprocessor": {
    "numeric": {"columns": ["farm_size_acres"]},
    "categorical": {"columns": [], "categories": [], "handle_unknown": "ignore"}
  },
  "model": {
    "base_value": 0,
    "tree_weight": 1,
    "trees": [{
      "children_left": [1, -1, -1],
      "children_right": [2, -1, -1],
      "feature": [0, -2, -2],
      "threshold": [2, -2, -2],
      "value": [2000, 1500, 2500],
      "cover": [2, 1, 1]
    }]
  }
}`

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRunMissingModel(t *testing.T) {
	cfg := config.Config{
		Service:        config.Yield,
		Port:           "0",
		YieldModelPath: filepath.Join(t.TempDir(), "corn_yield_model.json"),
	}
	if err := run(context.Background(), cfg, discard()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("run() = %v, want a missing file error", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corn_yield_model.json")
	if err := os.WriteFile(path, []byte(stumpArtifact), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{Service: config.Yield, Port: "0", YieldModelPath: path}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := run(ctx, cfg, discard()); err != nil {
		t.Errorf("run() = %v, want nil after cancel", err)
	}
}
