package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/match-predictor/internal/database"
	"github.com/yourusername/match-predictor/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

const predictionColumns = `id, home_team, away_team, home_win_prob, draw_prob, away_win_prob,
	home_score, away_score, predicted_winner, confidence, model_accuracy, model_precision, predicted_at`

// Create inserts a new prediction result
func (r *PostgresPredictionRepository) Create(ctx context.Context, prediction *models.PredictionResult) error {
	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		prediction.ID, prediction.HomeTeam, prediction.AwayTeam,
		prediction.HomeWinProb, prediction.DrawProb, prediction.AwayWinProb,
		prediction.HomeScore, prediction.AwayScore, prediction.PredictedWinner,
		prediction.Confidence, prediction.ModelAccuracy, prediction.ModelPrecision,
		prediction.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}

	return nil
}

// List returns all stored predictions, newest first
func (r *PostgresPredictionRepository) List(ctx context.Context) ([]*models.PredictionResult, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions ORDER BY predicted_at DESC`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// ListByHomeTeam returns predictions where the given team is at home
func (r *PostgresPredictionRepository) ListByHomeTeam(ctx context.Context, team string) ([]*models.PredictionResult, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE home_team = $1 ORDER BY predicted_at DESC`

	rows, err := r.db.GetPool().Query(ctx, query, team)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions for team: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

func scanPredictions(rows pgx.Rows) ([]*models.PredictionResult, error) {
	var predictions []*models.PredictionResult
	for rows.Next() {
		p := &models.PredictionResult{}
		err := rows.Scan(
			&p.ID, &p.HomeTeam, &p.AwayTeam,
			&p.HomeWinProb, &p.DrawProb, &p.AwayWinProb,
			&p.HomeScore, &p.AwayScore, &p.PredictedWinner,
			&p.Confidence, &p.ModelAccuracy, &p.ModelPrecision,
			&p.PredictedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}
