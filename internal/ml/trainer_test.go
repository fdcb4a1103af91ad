package ml

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/match-predictor/internal/corpus"
	"github.com/yourusername/match-predictor/internal/models"
)

// syntheticTable builds a two-team corpus straddling the cutoff. Team form
// correlates with results so the classifier has signal to fit.
func syntheticTable(matchesPerTeam int) *corpus.Table {
	var records []models.MatchRecord
	for _, team := range []string{"Arsenal", "Burnley"} {
		for i := 0; i < matchesPerTeam; i++ {
			result := models.ResultLoss
			goals := 0.5
			if team == "Arsenal" {
				result = models.ResultWin
				goals = 2.5
			}
			venue := "Home"
			if i%2 == 0 {
				venue = "Away"
			}
			records = append(records, models.MatchRecord{
				Team:     team,
				Date:     time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i*14),
				Time:     "15:00",
				Venue:    venue,
				Opponent: fmt.Sprintf("Opponent %d", i%5),
				Result:   result,
				GoalsFor: goals,
				Shots:    goals * 5,
			})
		}
	}
	return corpus.NewTable(records)
}

func TestTrainerProducesArtifact(t *testing.T) {
	trainer := NewTrainer(TrainerConfig{
		ModelID: "rf_test",
		Cutoff:  time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		Forest:  ForestConfig{Trees: 10, MinSamplesSplit: 5, Seed: 1},
	}, testLogger())

	artifact, err := trainer.Train(context.Background(), syntheticTable(40))
	require.NoError(t, err)

	assert.Equal(t, "rf_test", artifact.ModelID)
	assert.Equal(t, FeatureNames(), artifact.FeatureNames)
	assert.Len(t, artifact.FeatureNames, 12)
	assert.GreaterOrEqual(t, artifact.Accuracy, 0.0)
	assert.LessOrEqual(t, artifact.Accuracy, 1.0)
	assert.GreaterOrEqual(t, artifact.Precision, 0.0)
	assert.LessOrEqual(t, artifact.Precision, 1.0)
	assert.NotNil(t, artifact.Forest)
}

func TestTrainerDefaultsForestConfig(t *testing.T) {
	trainer := NewTrainer(TrainerConfig{ModelID: "rf_test"}, testLogger())
	assert.Equal(t, DefaultForestConfig(), trainer.cfg.Forest)
}

func TestTrainerFailsOnEmptyCorpus(t *testing.T) {
	trainer := NewTrainer(TrainerConfig{
		ModelID: "rf_test",
		Cutoff:  time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	}, testLogger())

	_, err := trainer.Train(context.Background(), corpus.NewTable(nil))
	assert.ErrorIs(t, err, ErrTrainingFailed)
}

func TestTrainerFailsOnDegenerateSplit(t *testing.T) {
	trainer := NewTrainer(TrainerConfig{
		ModelID: "rf_test",
		// Cutoff before every match: nothing to train on.
		Cutoff: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Forest: ForestConfig{Trees: 5, MinSamplesSplit: 5, Seed: 1},
	}, testLogger())

	_, err := trainer.Train(context.Background(), syntheticTable(10))
	assert.ErrorIs(t, err, ErrTrainingFailed)
}

func TestFeatureNamesOrder(t *testing.T) {
	names := FeatureNames()
	require.Len(t, names, 12)
	assert.Equal(t, []string{"venue", "opp", "hour", "day"}, names[:4])
	assert.Equal(t, "gf_rolling", names[4])
}
