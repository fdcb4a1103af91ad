// Package corpus loads the historical and live match corpora from their
// tabular CSV exports and derives the categorical codes the classifier needs.
package corpus

import (
	"context"
	"time"

	"github.com/yourusername/match-predictor/internal/models"
)

// Table is an in-memory match corpus together with the categorical codes
// derived from it. Codes are dataset-local: a code from the live table
// must never be used against a model trained on the historical table.
type Table struct {
	Records       []models.MatchRecord
	VenueCodes    *CodeBook
	OpponentCodes *CodeBook
}

// Source loads a match corpus. Loads are idempotent and side-effect free,
// so callers may repeat them whenever a cache is invalidated.
type Source interface {
	Load(ctx context.Context) (*Table, error)
	Name() string
}

// NewTable wraps records with freshly derived venue and opponent codes.
func NewTable(records []models.MatchRecord) *Table {
	venues := make([]string, len(records))
	opponents := make([]string, len(records))
	for i, r := range records {
		venues[i] = r.Venue
		opponents[i] = r.Opponent
	}
	return &Table{
		Records:       records,
		VenueCodes:    NewCodeBook(venues),
		OpponentCodes: NewCodeBook(opponents),
	}
}

// Teams returns the set of team names present in the table.
func (t *Table) Teams() map[string]bool {
	teams := make(map[string]bool)
	for _, r := range t.Records {
		teams[r.Team] = true
	}
	return teams
}

// CompletedBefore counts a team's matches strictly before the given instant.
func (t *Table) CompletedBefore(team string, instant time.Time) int {
	n := 0
	for _, r := range t.Records {
		if r.Team == team && r.Date.Before(instant) {
			n++
		}
	}
	return n
}
