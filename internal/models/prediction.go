package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WinnerDraw is the predicted winner label when neither side is favored.
const WinnerDraw = "Draw"

// PredictionResult is the outcome of a single prediction request.
// Probabilities sum to 1 and each lies in [0,1]; the scoreline is an
// indicative heuristic, not a calibrated forecast.
type PredictionResult struct {
	ID              uuid.UUID `db:"id" json:"id"`
	HomeTeam        string    `db:"home_team" json:"home_team"`
	AwayTeam        string    `db:"away_team" json:"away_team"`
	HomeWinProb     float64   `db:"home_win_prob" json:"home_win_prob" validate:"gte=0,lte=1"`
	DrawProb        float64   `db:"draw_prob" json:"draw_prob" validate:"gte=0,lte=1"`
	AwayWinProb     float64   `db:"away_win_prob" json:"away_win_prob" validate:"gte=0,lte=1"`
	HomeScore       int       `db:"home_score" json:"home_score" validate:"gte=0"`
	AwayScore       int       `db:"away_score" json:"away_score" validate:"gte=0"`
	PredictedWinner string    `db:"predicted_winner" json:"predicted_winner"`
	Confidence      float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	ModelAccuracy   float64   `db:"accuracy" json:"accuracy"`
	ModelPrecision  float64   `db:"precision" json:"precision"`
	PredictedAt     time.Time `db:"predicted_at" json:"predicted_at"`
}

// Scoreline renders the predicted score as "home-away".
func (p *PredictionResult) Scoreline() string {
	return fmt.Sprintf("%d-%d", p.HomeScore, p.AwayScore)
}

// RoundProbabilities rounds the stored probabilities and confidence to
// four decimal places, matching what gets persisted.
func (p *PredictionResult) RoundProbabilities() {
	p.HomeWinProb = round4(p.HomeWinProb)
	p.DrawProb = round4(p.DrawProb)
	p.AwayWinProb = round4(p.AwayWinProb)
	p.Confidence = round4(p.Confidence)
	p.ModelAccuracy = round4(p.ModelAccuracy)
	p.ModelPrecision = round4(p.ModelPrecision)
}

func round4(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}
