package ml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// State tracks the registry's lifecycle for the configured model identifier.
type State int

// Registry states. Transitions: UNLOADED -> LOADING -> LOADED, back to
// UNLOADED on identifier change or load failure.
const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// TrainFunc produces an artifact on demand when no stored artifact exists.
type TrainFunc func(ctx context.Context) (*Artifact, error)

// Registry resolves the configured model identifier to a trained artifact.
// It loads lazily, caches the artifact for the process lifetime, and holds
// at most one resident artifact: switching identifiers evicts the previous
// one. Reads are safe under concurrency once loaded; transitions through
// LOADING are serialized by the single writer lock.
type Registry struct {
	mu         sync.RWMutex
	modelID    string
	searchDirs []string
	state      State
	artifact   *Artifact
	logger     *logrus.Logger
}

// NewRegistry creates a registry for the given model identifier and
// ordered artifact search directories.
func NewRegistry(modelID string, searchDirs []string, logger *logrus.Logger) *Registry {
	return &Registry{
		modelID:    modelID,
		searchDirs: searchDirs,
		state:      StateUnloaded,
		logger:     logger,
	}
}

// ModelID returns the configured model identifier.
func (r *Registry) ModelID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.modelID
}

// State returns the current lifecycle state.
func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Artifact returns the resident artifact, if loaded.
func (r *Registry) Artifact() (*Artifact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateLoaded {
		return nil, false
	}
	return r.artifact, true
}

// SetModelID switches the configured identifier. A change evicts the
// resident artifact so the next load cannot reuse stale classifier or
// feature state.
func (r *Registry) SetModelID(modelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.modelID == modelID {
		return
	}
	r.logger.WithFields(logrus.Fields{
		"old_model": r.modelID,
		"new_model": modelID,
	}).Info("Model identifier changed, evicting cached artifact")
	r.modelID = modelID
	r.artifact = nil
	r.state = StateUnloaded
}

// Invalidate drops the resident artifact, forcing a reload on next use.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifact = nil
	r.state = StateUnloaded
}

// GetOrLoad returns the resident artifact, loading it first if necessary.
// On a miss it searches the candidate directories in order; when no
// artifact file exists it falls back to the supplied train function. A nil
// train function surfaces ErrNoArtifact instead. Structurally invalid
// artifacts count as load failures and fall through to training.
func (r *Registry) GetOrLoad(ctx context.Context, train TrainFunc) (*Artifact, error) {
	r.mu.RLock()
	if r.state == StateLoaded {
		artifact := r.artifact
		r.mu.RUnlock()
		return artifact, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another request may have populated the cache while we waited.
	if r.state == StateLoaded {
		return r.artifact, nil
	}

	r.state = StateLoading
	artifact, err := r.loadLocked(ctx, train)
	if err != nil {
		r.state = StateUnloaded
		return nil, err
	}

	r.artifact = artifact
	r.state = StateLoaded
	ModelAccuracy.WithLabelValues(artifact.ModelID).Set(artifact.Accuracy)
	ModelPrecision.WithLabelValues(artifact.ModelID).Set(artifact.Precision)
	return artifact, nil
}

func (r *Registry) loadLocked(ctx context.Context, train TrainFunc) (*Artifact, error) {
	for _, dir := range r.searchDirs {
		path := filepath.Join(dir, ArtifactFileName(r.modelID))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		artifact, err := LoadArtifact(path, r.modelID)
		if err != nil {
			// An unusable artifact falls back to training rather than
			// failing the request.
			ModelLoadsTotal.WithLabelValues("invalid").Inc()
			r.logger.WithError(err).WithField("path", path).Warn("Artifact failed validation, falling back")
			break
		}

		ModelLoadsTotal.WithLabelValues("artifact").Inc()
		r.logger.WithFields(logrus.Fields{
			"model_id":  r.modelID,
			"path":      path,
			"accuracy":  artifact.Accuracy,
			"precision": artifact.Precision,
		}).Info("Model artifact loaded")
		return artifact, nil
	}

	if train == nil {
		ModelLoadsTotal.WithLabelValues("missing").Inc()
		return nil, fmt.Errorf("%w for model %q, searched: %v", ErrNoArtifact, r.modelID, r.searchDirs)
	}

	r.logger.WithField("model_id", r.modelID).Info("No artifact available, training on demand")
	artifact, err := train(ctx)
	if err != nil {
		TrainingJobsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}
	if artifact.ModelID != r.modelID {
		return nil, fmt.Errorf("%w: trained %q, expected %q", ErrInvalidArtifact, artifact.ModelID, r.modelID)
	}

	TrainingJobsTotal.WithLabelValues("success").Inc()
	ModelLoadsTotal.WithLabelValues("trained").Inc()
	return artifact, nil
}
