package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact is a loaded, validated model: the classifier, its expected
// feature order, and the held-out metrics computed when it was trained.
// Immutable after load.
type Artifact struct {
	ModelID      string
	Forest       *Forest
	FeatureNames []string
	Accuracy     float64
	Precision    float64
	TrainedAt    time.Time
}

// artifactFile is the on-disk artifact bundle. The metrics table is keyed
// by model identifier; values use pointers so an absent accuracy or
// precision is distinguishable from zero.
type artifactFile struct {
	ModelID      string                  `json:"model_id"`
	FeatureNames []string                `json:"feature_names"`
	Metrics      map[string]metricsEntry `json:"metrics"`
	TrainedAt    time.Time               `json:"trained_at"`
	Forest       *Forest                 `json:"forest"`
}

type metricsEntry struct {
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Precision *float64 `json:"precision,omitempty"`
}

// LoadArtifact reads and validates an artifact file for the given model
// identifier. A structurally invalid bundle is ErrInvalidArtifact, which
// callers treat as a load failure triggering fallback training, not a
// fatal error.
func LoadArtifact(path, modelID string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
	}

	if file.Forest == nil || len(file.Forest.Trees) == 0 {
		return nil, fmt.Errorf("%w: %s carries no classifier", ErrInvalidArtifact, path)
	}
	if len(file.FeatureNames) == 0 {
		return nil, fmt.Errorf("%w: %s carries no feature list", ErrInvalidArtifact, path)
	}
	entry, ok := file.Metrics[modelID]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no metrics entry for model %q", ErrInvalidArtifact, path, modelID)
	}
	if entry.Accuracy == nil || entry.Precision == nil {
		return nil, fmt.Errorf("%w: metrics entry for model %q is missing accuracy or precision", ErrInvalidArtifact, modelID)
	}

	return &Artifact{
		ModelID:      modelID,
		Forest:       file.Forest,
		FeatureNames: file.FeatureNames,
		Accuracy:     *entry.Accuracy,
		Precision:    *entry.Precision,
		TrainedAt:    file.TrainedAt,
	}, nil
}

// SaveArtifact writes an artifact bundle to dir as <model-id>.json.
func SaveArtifact(dir string, artifact *Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact dir: %w", err)
	}

	file := artifactFile{
		ModelID:      artifact.ModelID,
		FeatureNames: artifact.FeatureNames,
		Metrics: map[string]metricsEntry{
			artifact.ModelID: {
				Accuracy:  &artifact.Accuracy,
				Precision: &artifact.Precision,
			},
		},
		TrainedAt: artifact.TrainedAt,
		Forest:    artifact.Forest,
	}

	data, err := json.Marshal(&file)
	if err != nil {
		return "", fmt.Errorf("failed to encode artifact: %w", err)
	}

	path := filepath.Join(dir, ArtifactFileName(artifact.ModelID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return path, nil
}

// ArtifactFileName returns the artifact file name for a model identifier.
func ArtifactFileName(modelID string) string {
	return modelID + ".json"
}
