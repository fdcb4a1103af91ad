package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestScorelineFormat(t *testing.T) {
	p := &PredictionResult{HomeScore: 2, AwayScore: 1}
	assert.Equal(t, "2-1", p.Scoreline())
}

func TestRoundProbabilities(t *testing.T) {
	p := &PredictionResult{
		ID:             uuid.New(),
		HomeWinProb:    0.333333333,
		DrawProb:       0.250000049,
		AwayWinProb:    0.416666618,
		Confidence:     0.416666618,
		ModelAccuracy:  0.61247,
		ModelPrecision: 0.47999999,
	}
	p.RoundProbabilities()

	assert.Equal(t, 0.3333, p.HomeWinProb)
	assert.Equal(t, 0.25, p.DrawProb)
	assert.Equal(t, 0.4167, p.AwayWinProb)
	assert.Equal(t, 0.4167, p.Confidence)
	assert.Equal(t, 0.6125, p.ModelAccuracy)
	assert.Equal(t, 0.48, p.ModelPrecision)
}
