package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeProbabilitiesWithRemainderDraw(t *testing.T) {
	home, draw, away := normalizeProbabilities(0.5, 0.3)
	assert.InDelta(t, 0.5, home, 1e-9)
	assert.InDelta(t, 0.2, draw, 1e-9)
	assert.InDelta(t, 0.3, away, 1e-9)
}

func TestNormalizeProbabilitiesOverclaimed(t *testing.T) {
	home, draw, away := normalizeProbabilities(0.7, 0.6)
	total := 0.7 + 0.6 + drawPrior
	assert.InDelta(t, 0.7/total, home, 1e-9)
	assert.InDelta(t, drawPrior/total, draw, 1e-9)
	assert.InDelta(t, 0.6/total, away, 1e-9)
	assert.InDelta(t, 1.0, home+draw+away, 1e-9)
}

func TestNormalizeProbabilitiesAlwaysSumToOne(t *testing.T) {
	for _, pair := range [][2]float64{{0, 0}, {0.5, 0.5}, {0.9, 0.9}, {1, 0}, {0.33, 0.41}} {
		home, draw, away := normalizeProbabilities(pair[0], pair[1])
		assert.InDelta(t, 1.0, home+draw+away, 1e-9)
	}
}

func rolling(gf, ga float64) map[string]float64 {
	return map[string]float64{"gf_rolling": gf, "ga_rolling": ga}
}

func TestScorelineEvenMatch(t *testing.T) {
	// base home = (1.5*0.7 + 1.0*0.3)*1.05 = 1.4175 -> 1
	// base away = (1.2*0.7 + 1.1*0.3)*0.95 = 1.1115 -> 1
	home, away := scoreline(0.4, 0.35, rolling(1.5, 1.1), rolling(1.2, 1.0))
	assert.Equal(t, 1, home)
	assert.Equal(t, 1, away)
}

func TestScorelineHomeFavorite(t *testing.T) {
	// The favored side is nudged up, the other down.
	home, away := scoreline(0.6, 0.2, rolling(2.0, 0.8), rolling(0.9, 1.8))
	// base home = (2.0*0.7 + 1.8*0.3)*1.05 = 2.037; +0.3 -> 2.337 -> 2
	// base away = (0.9*0.7 + 0.8*0.3)*0.95 = 0.8265; -0.2 -> 0.6265 -> 1... rounds to 1
	assert.Equal(t, 2, home)
	assert.Equal(t, 1, away)
}

func TestScorelineFavoriteFloors(t *testing.T) {
	// Favored side never drops below 1 even with no attacking form.
	home, away := scoreline(0.9, 0.1, rolling(0, 0), rolling(0, 0))
	assert.Equal(t, 1, home)
	assert.Equal(t, 0, away)

	home, away = scoreline(0.1, 0.9, rolling(0, 0), rolling(0, 0))
	assert.Equal(t, 0, home)
	assert.Equal(t, 1, away)
}

func TestScorelineNeverNegative(t *testing.T) {
	home, away := scoreline(0.3, 0.3, rolling(0, 0), rolling(0, 0))
	assert.GreaterOrEqual(t, home, 0)
	assert.GreaterOrEqual(t, away, 0)
}
