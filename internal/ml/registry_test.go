package ml

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testArtifact(t *testing.T, modelID string) *Artifact {
	t.Helper()
	x, y := separableSamples(50)
	forest, err := TrainForest(x, y, ForestConfig{Trees: 5, MinSamplesSplit: 10, Seed: 1})
	require.NoError(t, err)

	return &Artifact{
		ModelID:      modelID,
		Forest:       forest,
		FeatureNames: []string{"f0", "f1"},
		Accuracy:     0.61,
		Precision:    0.47,
		TrainedAt:    time.Now().UTC(),
	}
}

func TestSaveAndLoadArtifact(t *testing.T) {
	dir := t.TempDir()
	saved := testArtifact(t, "rf_test")

	path, err := SaveArtifact(dir, saved)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rf_test.json"), path)

	loaded, err := LoadArtifact(path, "rf_test")
	require.NoError(t, err)
	assert.Equal(t, saved.ModelID, loaded.ModelID)
	assert.Equal(t, saved.FeatureNames, loaded.FeatureNames)
	assert.Equal(t, saved.Accuracy, loaded.Accuracy)
	assert.Equal(t, saved.Precision, loaded.Precision)
	assert.Len(t, loaded.Forest.Trees, 5)
}

func TestLoadArtifactWrongModelID(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveArtifact(dir, testArtifact(t, "rf_test"))
	require.NoError(t, err)

	_, err = LoadArtifact(path, "rf_other")
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestLoadArtifactCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadArtifact(path, "broken")
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestRegistryLoadsFromSearchDirs(t *testing.T) {
	empty := t.TempDir()
	dir := t.TempDir()
	_, err := SaveArtifact(dir, testArtifact(t, "rf_test"))
	require.NoError(t, err)

	// The empty dir comes first; the search must fall through to the second.
	registry := NewRegistry("rf_test", []string{empty, dir}, testLogger())
	assert.Equal(t, StateUnloaded, registry.State())

	artifact, err := registry.GetOrLoad(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "rf_test", artifact.ModelID)
	assert.Equal(t, StateLoaded, registry.State())

	// Second call returns the resident artifact.
	again, err := registry.GetOrLoad(context.Background(), nil)
	require.NoError(t, err)
	assert.Same(t, artifact, again)
}

func TestRegistryMissingArtifactWithoutTrainer(t *testing.T) {
	registry := NewRegistry("rf_test", []string{t.TempDir()}, testLogger())

	_, err := registry.GetOrLoad(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoArtifact)
	assert.Equal(t, StateUnloaded, registry.State())
}

func TestRegistryFallsBackToTraining(t *testing.T) {
	registry := NewRegistry("rf_test", []string{t.TempDir()}, testLogger())

	trained := 0
	artifact, err := registry.GetOrLoad(context.Background(), func(ctx context.Context) (*Artifact, error) {
		trained++
		return testArtifact(t, "rf_test"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, trained)
	assert.Equal(t, "rf_test", artifact.ModelID)

	// Resident artifact: no retraining on the next call.
	_, err = registry.GetOrLoad(context.Background(), func(ctx context.Context) (*Artifact, error) {
		trained++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, trained)
}

func TestRegistryInvalidArtifactFallsBackToTraining(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ArtifactFileName("rf_test")), []byte("{}"), 0o644))

	registry := NewRegistry("rf_test", []string{dir}, testLogger())
	artifact, err := registry.GetOrLoad(context.Background(), func(ctx context.Context) (*Artifact, error) {
		return testArtifact(t, "rf_test"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "rf_test", artifact.ModelID)
}

func TestRegistryTrainedModelIDMismatch(t *testing.T) {
	registry := NewRegistry("rf_test", []string{t.TempDir()}, testLogger())

	_, err := registry.GetOrLoad(context.Background(), func(ctx context.Context) (*Artifact, error) {
		return testArtifact(t, "rf_wrong"), nil
	})
	assert.ErrorIs(t, err, ErrInvalidArtifact)
}

func TestRegistrySetModelIDEvicts(t *testing.T) {
	dir := t.TempDir()
	_, err := SaveArtifact(dir, testArtifact(t, "rf_a"))
	require.NoError(t, err)

	registry := NewRegistry("rf_a", []string{dir}, testLogger())
	_, err = registry.GetOrLoad(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, StateLoaded, registry.State())

	registry.SetModelID("rf_b")
	assert.Equal(t, StateUnloaded, registry.State())
	assert.Equal(t, "rf_b", registry.ModelID())
	_, ok := registry.Artifact()
	assert.False(t, ok)

	// Same identifier again is a no-op.
	registry.SetModelID("rf_b")
	assert.Equal(t, "rf_b", registry.ModelID())
}

func TestRegistryInvalidate(t *testing.T) {
	dir := t.TempDir()
	_, err := SaveArtifact(dir, testArtifact(t, "rf_a"))
	require.NoError(t, err)

	registry := NewRegistry("rf_a", []string{dir}, testLogger())
	_, err = registry.GetOrLoad(context.Background(), nil)
	require.NoError(t, err)

	registry.Invalidate()
	assert.Equal(t, StateUnloaded, registry.State())
}
