package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultKickoff is substituted when a fixture's time string cannot be
// parsed as HH:MM.
const DefaultKickoff = "12:00"

// Fixture describes a requested match to predict.
type Fixture struct {
	HomeTeam string `json:"home_team" validate:"required"`
	AwayTeam string `json:"away_team" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time"`
	Round    string `json:"round"`
	Venue    string `json:"venue"`
}

// NormalizeKickoffTime strips trailing parenthetical annotations and
// surrounding whitespace from a raw time string. Schedule exports carry
// values like "15:00 (19:00)"; only the leading clock matters. When the
// remainder is not an HH:MM clock the default kickoff is returned instead
// of an error.
func NormalizeKickoffTime(raw string) string {
	clean := raw
	if idx := strings.Index(clean, "("); idx >= 0 {
		clean = clean[:idx]
	}
	clean = strings.TrimSpace(clean)
	if fields := strings.Fields(clean); len(fields) > 0 {
		clean = fields[0]
	}
	if _, err := time.Parse("15:04", clean); err != nil {
		return DefaultKickoff
	}
	return clean
}

// Kickoff resolves the fixture's date and normalized time into a single
// instant. An unparseable date is a client error.
func (f *Fixture) Kickoff() (time.Time, error) {
	clock := NormalizeKickoffTime(f.Time)
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04"} {
		if ts, err := time.Parse(layout, f.Date+" "+clock); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: '%s %s'", ErrInvalidTimeFormat, f.Date, f.Time)
}

// HourFromClock extracts the leading hour from an HH:MM string.
func HourFromClock(clock string) int {
	head, _, _ := strings.Cut(clock, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0
	}
	return hour
}

// Weekday converts a Go weekday to the corpus encoding where Monday is 0
// and Sunday is 6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
