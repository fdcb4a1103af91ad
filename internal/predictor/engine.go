// Package predictor joins the corpora, rolling features, and classifier
// into per-fixture outcome predictions.
package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-predictor/internal/corpus"
	"github.com/yourusername/match-predictor/internal/features"
	"github.com/yourusername/match-predictor/internal/ml"
	"github.com/yourusername/match-predictor/internal/models"
)

// Store persists prediction results. Persistence is a downstream concern;
// the engine only hands results off.
type Store interface {
	Create(ctx context.Context, prediction *models.PredictionResult) error
}

// Engine orchestrates a prediction request end to end.
type Engine struct {
	historical corpus.Source
	schedule   corpus.Source
	registry   *ml.Registry
	trainer    *ml.Trainer
	cache      *ResultCache
	store      Store
	logger     *logrus.Logger
}

// NewEngine wires an engine. The store and cache may be nil; the engine
// then predicts without persisting or memoizing.
func NewEngine(historical, schedule corpus.Source, registry *ml.Registry, trainer *ml.Trainer, cache *ResultCache, store Store, logger *logrus.Logger) *Engine {
	return &Engine{
		historical: historical,
		schedule:   schedule,
		registry:   registry,
		trainer:    trainer,
		cache:      cache,
		store:      store,
		logger:     logger,
	}
}

// Predict produces calibrated win/draw/loss probabilities and an
// indicative scoreline for a fixture.
func (e *Engine) Predict(ctx context.Context, fixture *models.Fixture) (*models.PredictionResult, error) {
	start := time.Now()
	defer func() {
		PredictionLatency.Observe(time.Since(start).Seconds())
	}()

	kickoff, err := fixture.Kickoff()
	if err != nil {
		PredictionErrorsTotal.WithLabelValues("invalid_time").Inc()
		return nil, err
	}

	if e.cache != nil {
		if cached := e.cache.Get(fixture); cached != nil {
			PredictionsTotal.WithLabelValues("cache").Inc()
			return cached, nil
		}
	}

	hist, err := e.historical.Load(ctx)
	if err != nil {
		PredictionErrorsTotal.WithLabelValues("corpus").Inc()
		return nil, err
	}

	schedule, err := e.schedule.Load(ctx)
	if err != nil {
		PredictionErrorsTotal.WithLabelValues("corpus").Inc()
		return nil, err
	}

	artifact, err := e.registry.GetOrLoad(ctx, func(ctx context.Context) (*ml.Artifact, error) {
		return e.trainer.Train(ctx, hist)
	})
	if err != nil {
		PredictionErrorsTotal.WithLabelValues("model").Inc()
		return nil, err
	}

	rows := features.Build(schedule.Records)

	homeForm, err := latestForm(rows, schedule, fixture.HomeTeam, kickoff)
	if err != nil {
		PredictionErrorsTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}
	awayForm, err := latestForm(rows, schedule, fixture.AwayTeam, kickoff)
	if err != nil {
		PredictionErrorsTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}

	// Opponent codes come from the historical corpus only: live-dataset
	// codes are derived independently and do not line up with the codes
	// the model was trained on. Each perspective carries the code of the
	// side it is playing against.
	awayOppCode := corpus.ResolveOpponentCode(hist, fixture.AwayTeam)
	homeOppCode := corpus.ResolveOpponentCode(hist, fixture.HomeTeam)

	hour := models.HourFromClock(models.NormalizeKickoffTime(fixture.Time))
	day := models.Weekday(kickoff)

	homeVec, err := perspectiveVector(homeForm, 1, awayOppCode, hour, day, artifact.FeatureNames)
	if err != nil {
		return nil, fmt.Errorf("failed to build home feature vector: %w", err)
	}
	awayVec, err := perspectiveVector(awayForm, 0, homeOppCode, hour, day, artifact.FeatureNames)
	if err != nil {
		return nil, fmt.Errorf("failed to build away feature vector: %w", err)
	}

	homeProbs, err := artifact.Forest.PredictProba(homeVec)
	if err != nil {
		return nil, err
	}
	awayProbs, err := artifact.Forest.PredictProba(awayVec)
	if err != nil {
		return nil, err
	}

	homeWin, drawProb, awayWin := normalizeProbabilities(homeProbs[1], awayProbs[1])
	homeScore, awayScore := scoreline(homeWin, awayWin, homeForm.Rolling, awayForm.Rolling)

	result := &models.PredictionResult{
		ID:              uuid.New(),
		HomeTeam:        fixture.HomeTeam,
		AwayTeam:        fixture.AwayTeam,
		HomeWinProb:     homeWin,
		DrawProb:        drawProb,
		AwayWinProb:     awayWin,
		HomeScore:       homeScore,
		AwayScore:       awayScore,
		PredictedWinner: winnerLabel(fixture, homeWin, awayWin),
		Confidence:      max3(homeWin, awayWin, drawProb),
		ModelAccuracy:   artifact.Accuracy,
		ModelPrecision:  artifact.Precision,
		PredictedAt:     time.Now().UTC(),
	}
	result.RoundProbabilities()

	if e.store != nil {
		if err := e.store.Create(ctx, result); err != nil {
			// Persistence is downstream; a storage failure must not
			// invalidate an otherwise sound prediction.
			e.logger.WithError(err).Warn("Failed to persist prediction")
		}
	}
	if e.cache != nil {
		e.cache.Set(fixture, result)
	}

	PredictionsTotal.WithLabelValues("model").Inc()
	e.logger.WithFields(logrus.Fields{
		"home":       result.HomeTeam,
		"away":       result.AwayTeam,
		"winner":     result.PredictedWinner,
		"scoreline":  result.Scoreline(),
		"confidence": result.Confidence,
	}).Info("Prediction completed")

	return result, nil
}

// latestForm resolves a team's most recent rolling-feature row strictly
// before the fixture instant, distinguishing an unknown team from one
// with too little history.
func latestForm(rows []features.Row, schedule *corpus.Table, team string, before time.Time) (*features.Row, error) {
	var latest *features.Row
	for i := range rows {
		row := &rows[i]
		if row.Team != team || !row.Date.Before(before) {
			continue
		}
		if latest == nil || row.Date.After(latest.Date) {
			latest = row
		}
	}
	if latest != nil {
		return latest, nil
	}

	if !schedule.Teams()[team] {
		return nil, fmt.Errorf("%w: %q", models.ErrTeamNotFound, team)
	}
	completed := schedule.CompletedBefore(team, before)
	return nil, fmt.Errorf("%w for %q: %d completed matches before %s, need at least %d",
		models.ErrNotEnoughMatches, team, completed,
		before.Format("2006-01-02 15:04"), features.Window+1)
}

// perspectiveVector builds a single-row feature vector for one side of the
// fixture: its home/away indicator, the opposing side's historical
// opponent code, the shared kickoff hour and day, and its own rolling form.
func perspectiveVector(form *features.Row, homeAway float64, oppCode, hour, day int, order []string) ([]float64, error) {
	values := map[string]float64{
		"venue": homeAway,
		"opp":   float64(oppCode),
		"hour":  float64(hour),
		"day":   float64(day),
	}
	for name, v := range form.Rolling {
		values[name] = v
	}
	return features.Vector(values, order)
}

func winnerLabel(fixture *models.Fixture, homeWin, awayWin float64) string {
	switch {
	case homeWin > awayWin:
		return fixture.HomeTeam
	case awayWin > homeWin:
		return fixture.AwayTeam
	default:
		return models.WinnerDraw
	}
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
