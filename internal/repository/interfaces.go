// Package repository provides persistence for prediction results.
package repository

import (
	"context"

	"github.com/yourusername/match-predictor/internal/models"
)

// PredictionRepository defines prediction result storage operations.
type PredictionRepository interface {
	// Create stores a new prediction result
	Create(ctx context.Context, prediction *models.PredictionResult) error

	// List returns all stored predictions, newest first
	List(ctx context.Context) ([]*models.PredictionResult, error)

	// ListByHomeTeam returns predictions where the given team is at home
	ListByHomeTeam(ctx context.Context, team string) ([]*models.PredictionResult, error)
}
