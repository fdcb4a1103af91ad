package ml

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-predictor/internal/corpus"
	"github.com/yourusername/match-predictor/internal/features"
	"github.com/yourusername/match-predictor/internal/models"
)

// BaseFeatureNames are the non-rolling predictors, in feature order:
// home/away indicator, opponent code, kickoff hour, day of week.
var BaseFeatureNames = []string{"venue", "opp", "hour", "day"}

// TrainerConfig controls fallback training.
type TrainerConfig struct {
	ModelID string
	// Cutoff is the temporal split point: matches before it train the
	// model, matches on or after it form the held-out evaluation set.
	Cutoff time.Time
	Forest ForestConfig
}

// Trainer trains a classifier from a historical rolling-feature table when
// no stored artifact is available.
type Trainer struct {
	cfg    TrainerConfig
	logger *logrus.Logger
}

// NewTrainer creates a trainer.
func NewTrainer(cfg TrainerConfig, logger *logrus.Logger) *Trainer {
	if cfg.Forest.Trees == 0 {
		cfg.Forest = DefaultForestConfig()
	}
	return &Trainer{cfg: cfg, logger: logger}
}

// FeatureNames returns the full predictor list in model order.
func FeatureNames() []string {
	return append(append([]string{}, BaseFeatureNames...), features.RollingNames()...)
}

// Train builds rolling features over the historical table, fits the forest
// on the pre-cutoff split, and computes accuracy and precision on the
// held-out post-cutoff split.
func (t *Trainer) Train(ctx context.Context, table *corpus.Table) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := features.Build(table.Records)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rolling feature rows in historical corpus", ErrTrainingFailed)
	}

	names := FeatureNames()
	var trainX, testX [][]float64
	var trainY, testY []int

	for i := range rows {
		row := &rows[i]
		vec, err := features.Vector(rowValues(row, table), names)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTrainingFailed, err)
		}
		label := 0
		if row.Won() {
			label = 1
		}
		if row.Date.Before(t.cfg.Cutoff) {
			trainX = append(trainX, vec)
			trainY = append(trainY, label)
		} else {
			testX = append(testX, vec)
			testY = append(testY, label)
		}
	}

	if len(trainX) == 0 || len(testX) == 0 {
		return nil, fmt.Errorf("%w: temporal split at %s left %d train / %d test rows",
			ErrTrainingFailed, t.cfg.Cutoff.Format("2006-01-02"), len(trainX), len(testX))
	}

	start := time.Now()
	forest, err := TrainForest(trainX, trainY, t.cfg.Forest)
	if err != nil {
		return nil, err
	}

	accuracy, precision, err := evaluate(forest, testX, testY)
	if err != nil {
		return nil, err
	}

	t.logger.WithFields(logrus.Fields{
		"model_id":   t.cfg.ModelID,
		"train_rows": len(trainX),
		"test_rows":  len(testX),
		"accuracy":   accuracy,
		"precision":  precision,
		"duration":   time.Since(start).String(),
	}).Info("Fallback training completed")

	return &Artifact{
		ModelID:      t.cfg.ModelID,
		Forest:       forest,
		FeatureNames: names,
		Accuracy:     accuracy,
		Precision:    precision,
		TrainedAt:    time.Now().UTC(),
	}, nil
}

// rowValues maps a rolling row to named feature values using the table's
// own categorical codes.
func rowValues(row *features.Row, table *corpus.Table) map[string]float64 {
	values := map[string]float64{
		"venue": homeAwayIndicator(row.Venue),
		"opp":   float64(table.OpponentCodes.Code(row.Opponent)),
		"hour":  float64(row.KickoffHour()),
		"day":   float64(models.Weekday(row.Date)),
	}
	for name, v := range row.Rolling {
		values[name] = v
	}
	return values
}

func homeAwayIndicator(venue string) float64 {
	if venue == "Home" {
		return 1
	}
	return 0
}

// evaluate computes accuracy and precision for the "win" class on a
// held-out sample set. Precision degrades to 0 when the model never
// predicts a win.
func evaluate(forest *Forest, x [][]float64, y []int) (float64, float64, error) {
	correct := 0
	truePos := 0
	predPos := 0

	for i := range x {
		pred, err := forest.Predict(x[i])
		if err != nil {
			return 0, 0, err
		}
		if pred == y[i] {
			correct++
		}
		if pred == 1 {
			predPos++
			if y[i] == 1 {
				truePos++
			}
		}
	}

	accuracy := float64(correct) / float64(len(x))
	precision := 0.0
	if predPos > 0 {
		precision = float64(truePos) / float64(predPos)
	}
	return accuracy, precision, nil
}
