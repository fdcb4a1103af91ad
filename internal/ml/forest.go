package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ForestConfig holds the random forest hyperparameters. The defaults
// mirror the offline training process the artifacts come from.
type ForestConfig struct {
	Trees           int   `json:"trees"`
	MinSamplesSplit int   `json:"min_samples_split"`
	Seed            int64 `json:"seed"`
}

// DefaultForestConfig returns the hyperparameters used for fallback training.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           100,
		MinSamplesSplit: 10,
		Seed:            1,
	}
}

// Node is a single decision node. Leaves carry the class distribution of
// the training samples that reached them.
type Node struct {
	Leaf      bool       `json:"leaf"`
	Feature   int        `json:"feature,omitempty"`
	Threshold float64    `json:"threshold,omitempty"`
	Left      *Node      `json:"left,omitempty"`
	Right     *Node      `json:"right,omitempty"`
	Probs     [2]float64 `json:"probs,omitempty"`
}

// Forest is a binary random forest classifier over float feature vectors.
// Class 1 is "win". Immutable once trained or loaded, so concurrent
// inference is safe.
type Forest struct {
	Trees       []*Node      `json:"trees"`
	NumFeatures int          `json:"num_features"`
	Config      ForestConfig `json:"config"`
}

// TrainForest fits a forest on the given samples. Training is
// deterministic for a fixed config seed: each tree draws its bootstrap
// sample and feature subsets from a single seeded source.
func TrainForest(x [][]float64, y []int, cfg ForestConfig) (*Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d samples, %d labels", ErrTrainingFailed, len(x), len(y))
	}
	numFeatures := len(x[0])
	if numFeatures == 0 {
		return nil, fmt.Errorf("%w: empty feature vectors", ErrTrainingFailed)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	mtry := int(math.Sqrt(float64(numFeatures)))
	if mtry < 1 {
		mtry = 1
	}

	forest := &Forest{
		Trees:       make([]*Node, cfg.Trees),
		NumFeatures: numFeatures,
		Config:      cfg,
	}

	indices := make([]int, len(x))
	for t := 0; t < cfg.Trees; t++ {
		for i := range indices {
			indices[i] = rng.Intn(len(x))
		}
		forest.Trees[t] = growTree(x, y, indices, cfg.MinSamplesSplit, mtry, rng)
	}
	return forest, nil
}

// PredictProba returns the class probability distribution for a single
// feature vector, averaged over the per-tree leaf distributions.
func (f *Forest) PredictProba(x []float64) ([2]float64, error) {
	if len(x) != f.NumFeatures {
		return [2]float64{}, fmt.Errorf("%w: got %d features, model expects %d",
			ErrFeatureMismatch, len(x), f.NumFeatures)
	}

	var probs [2]float64
	for _, tree := range f.Trees {
		leaf := descend(tree, x)
		probs[0] += leaf.Probs[0]
		probs[1] += leaf.Probs[1]
	}
	n := float64(len(f.Trees))
	probs[0] /= n
	probs[1] /= n
	return probs, nil
}

// Predict returns the majority class for a single feature vector.
func (f *Forest) Predict(x []float64) (int, error) {
	probs, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if probs[1] > probs[0] {
		return 1, nil
	}
	return 0, nil
}

func descend(node *Node, x []float64) *Node {
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

func growTree(x [][]float64, y []int, indices []int, minSplit, mtry int, rng *rand.Rand) *Node {
	counts := classCounts(y, indices)
	if len(indices) < minSplit || counts[0] == 0 || counts[1] == 0 {
		return leafNode(counts)
	}

	feature, threshold, ok := bestSplit(x, y, indices, mtry, rng)
	if !ok {
		return leafNode(counts)
	}

	var left, right []int
	for _, i := range indices {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leafNode(counts)
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(x, y, left, minSplit, mtry, rng),
		Right:     growTree(x, y, right, minSplit, mtry, rng),
	}
}

func leafNode(counts [2]int) *Node {
	total := float64(counts[0] + counts[1])
	if total == 0 {
		return &Node{Leaf: true, Probs: [2]float64{0.5, 0.5}}
	}
	return &Node{Leaf: true, Probs: [2]float64{
		float64(counts[0]) / total,
		float64(counts[1]) / total,
	}}
}

func classCounts(y []int, indices []int) [2]int {
	var counts [2]int
	for _, i := range indices {
		counts[y[i]]++
	}
	return counts
}

// bestSplit searches a random feature subset for the threshold with the
// lowest weighted Gini impurity. Candidate thresholds are midpoints
// between consecutive distinct values.
func bestSplit(x [][]float64, y []int, indices []int, mtry int, rng *rand.Rand) (int, float64, bool) {
	numFeatures := len(x[0])
	perm := rng.Perm(numFeatures)

	bestGini := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	for _, feature := range perm[:mtry] {
		values := make([]float64, 0, len(indices))
		for _, i := range indices {
			values = append(values, x[i][feature])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			threshold := (values[v] + values[v-1]) / 2
			gini := splitGini(x, y, indices, feature, threshold)
			if gini < bestGini {
				bestGini = gini
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func splitGini(x [][]float64, y []int, indices []int, feature int, threshold float64) float64 {
	var left, right [2]int
	for _, i := range indices {
		if x[i][feature] <= threshold {
			left[y[i]]++
		} else {
			right[y[i]]++
		}
	}
	total := float64(len(indices))
	return gini(left)*float64(left[0]+left[1])/total + gini(right)*float64(right[0]+right[1])/total
}

func gini(counts [2]int) float64 {
	total := float64(counts[0] + counts[1])
	if total == 0 {
		return 0
	}
	p0 := float64(counts[0]) / total
	p1 := float64(counts[1]) / total
	return 1 - p0*p0 - p1*p1
}
