package ml

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separableSamples builds a two-class set where feature 0 cleanly splits
// the classes.
func separableSamples(n int) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(42))
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		if i%2 == 0 {
			x[i] = []float64{rng.Float64(), rng.Float64() * 10}
			y[i] = 0
		} else {
			x[i] = []float64{rng.Float64() + 5, rng.Float64() * 10}
			y[i] = 1
		}
	}
	return x, y
}

func TestTrainForestSeparatesClasses(t *testing.T) {
	x, y := separableSamples(200)
	forest, err := TrainForest(x, y, ForestConfig{Trees: 20, MinSamplesSplit: 10, Seed: 1})
	require.NoError(t, err)

	pred, err := forest.Predict([]float64{0.2, 5})
	require.NoError(t, err)
	assert.Equal(t, 0, pred)

	pred, err = forest.Predict([]float64{5.5, 5})
	require.NoError(t, err)
	assert.Equal(t, 1, pred)
}

func TestTrainForestDeterministicForSeed(t *testing.T) {
	x, y := separableSamples(100)
	cfg := ForestConfig{Trees: 10, MinSamplesSplit: 10, Seed: 1}

	a, err := TrainForest(x, y, cfg)
	require.NoError(t, err)
	b, err := TrainForest(x, y, cfg)
	require.NoError(t, err)

	probe := []float64{2.5, 3.0}
	pa, err := a.PredictProba(probe)
	require.NoError(t, err)
	pb, err := b.PredictProba(probe)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}

func TestPredictProbaDistribution(t *testing.T) {
	x, y := separableSamples(100)
	forest, err := TrainForest(x, y, ForestConfig{Trees: 15, MinSamplesSplit: 10, Seed: 1})
	require.NoError(t, err)

	probs, err := forest.PredictProba([]float64{0.1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-9)
	assert.GreaterOrEqual(t, probs[0], 0.0)
	assert.GreaterOrEqual(t, probs[1], 0.0)
}

func TestPredictProbaFeatureMismatch(t *testing.T) {
	x, y := separableSamples(50)
	forest, err := TrainForest(x, y, ForestConfig{Trees: 5, MinSamplesSplit: 10, Seed: 1})
	require.NoError(t, err)

	_, err = forest.PredictProba([]float64{1})
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}

func TestTrainForestRejectsBadInput(t *testing.T) {
	_, err := TrainForest(nil, nil, DefaultForestConfig())
	assert.ErrorIs(t, err, ErrTrainingFailed)

	_, err = TrainForest([][]float64{{1}}, []int{0, 1}, DefaultForestConfig())
	assert.ErrorIs(t, err, ErrTrainingFailed)
}
