// Package models defines the domain types shared across the prediction engine.
package models

import "time"

// Result values as they appear in the match corpora.
const (
	ResultWin  = "W"
	ResultDraw = "D"
	ResultLoss = "L"
)

// MatchRecord is a single per-team per-match row from a corpus.
// Records are immutable once ingested and ordered by date within a team.
type MatchRecord struct {
	Team          string    `json:"team"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Round         string    `json:"round"`
	Venue         string    `json:"venue"`
	Opponent      string    `json:"opponent"`
	Result        string    `json:"result"`
	GoalsFor      float64   `json:"gf"`
	GoalsAgainst  float64   `json:"ga"`
	Shots         float64   `json:"sh"`
	ShotsOnTarget float64   `json:"sot"`
	ShotDistance  float64   `json:"dist"`
	FreeKicks     float64   `json:"fk"`
	PenaltyGoals  float64   `json:"pk"`
	PenaltyTries  float64   `json:"pkatt"`
}

// Won reports whether the record is a win. This is the binary training
// target: draws and losses are both negatives.
func (m *MatchRecord) Won() bool {
	return m.Result == ResultWin
}

// KickoffHour extracts the hour component from the record's time string.
// Returns 0 when the string carries no parseable hour.
func (m *MatchRecord) KickoffHour() int {
	return HourFromClock(m.Time)
}
