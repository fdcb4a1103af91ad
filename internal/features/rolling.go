// Package features derives the rolling-form feature rows the classifier
// is trained and queried on.
package features

import (
	"fmt"
	"sort"

	"github.com/yourusername/match-predictor/internal/models"
)

// Window is the number of immediately preceding matches a rolling average
// is computed over.
const Window = 3

// Stats lists the tracked per-match statistics, in feature order.
var Stats = []string{"gf", "ga", "sh", "sot", "dist", "fk", "pk", "pkatt"}

// RollingNames returns the rolling feature column names, in feature order.
func RollingNames() []string {
	names := make([]string, len(Stats))
	for i, s := range Stats {
		names[i] = s + "_rolling"
	}
	return names
}

// Row is a match record augmented with rolling means of each tracked
// statistic over the Window matches strictly preceding it.
type Row struct {
	models.MatchRecord
	Rolling map[string]float64
}

// Build computes rolling feature rows for a possibly multi-team record
// sequence. Records are partitioned by team and re-sorted by date before
// windowing, because ingestion order is not guaranteed sorted. The window
// is closed on the left: a match's own statistics never contribute to its
// own rolling values. Rows without a full window are dropped, so a team
// with n matches yields max(n-Window, 0) rows.
func Build(records []models.MatchRecord) []Row {
	byTeam := make(map[string][]models.MatchRecord)
	var teams []string
	for _, r := range records {
		if _, ok := byTeam[r.Team]; !ok {
			teams = append(teams, r.Team)
		}
		byTeam[r.Team] = append(byTeam[r.Team], r)
	}
	sort.Strings(teams)

	var rows []Row
	for _, team := range teams {
		rows = append(rows, buildTeam(byTeam[team])...)
	}
	return rows
}

func buildTeam(records []models.MatchRecord) []Row {
	sorted := make([]models.MatchRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var rows []Row
	for i := Window; i < len(sorted); i++ {
		rolling := make(map[string]float64, len(Stats))
		for _, stat := range Stats {
			sum := 0.0
			for j := i - Window; j < i; j++ {
				sum += statValue(&sorted[j], stat)
			}
			rolling[stat+"_rolling"] = sum / Window
		}
		rows = append(rows, Row{MatchRecord: sorted[i], Rolling: rolling})
	}
	return rows
}

func statValue(m *models.MatchRecord, stat string) float64 {
	switch stat {
	case "gf":
		return m.GoalsFor
	case "ga":
		return m.GoalsAgainst
	case "sh":
		return m.Shots
	case "sot":
		return m.ShotsOnTarget
	case "dist":
		return m.ShotDistance
	case "fk":
		return m.FreeKicks
	case "pk":
		return m.PenaltyGoals
	case "pkatt":
		return m.PenaltyTries
	default:
		return 0
	}
}

// Vector orders named feature values into the exact column order a model
// expects. A name the values map does not carry is a hard error: a vector
// misaligned with the model's feature order would silently corrupt the
// prediction.
func Vector(values map[string]float64, order []string) ([]float64, error) {
	vec := make([]float64, len(order))
	for i, name := range order {
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("missing feature %q", name)
		}
		vec[i] = v
	}
	return vec, nil
}
