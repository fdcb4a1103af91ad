package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/match-predictor/internal/models"
)

// Columns every corpus export must carry. Shot-detail columns are optional
// because recently played matches often lack them.
var requiredColumns = []string{"date", "venue", "result", "opponent", "team"}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", "02/01/2006"}

// ParseOptions controls corpus-specific parsing behaviour.
type ParseOptions struct {
	// CompletedOnly drops rows without a result, i.e. fixtures that have
	// not been played yet. The live schedule export mixes both.
	CompletedOnly bool
	// NormalizeTimes cleans schedule-style time strings such as
	// "15:00 (19:00)" down to a plain clock.
	NormalizeTimes bool
}

// ParseMatches reads a corpus CSV into match records. Header matching is
// case-insensitive so the historical export (lowercase headers) and the
// schedule export (capitalized headers) go through the same path. Absent
// shot-detail columns are zero-filled.
func ParseMatches(r io.Reader, opts ParseOptions) ([]models.MatchRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("corpus is missing required column %q", name)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	stat := func(row []string, name string) float64 {
		v, err := strconv.ParseFloat(field(row, name), 64)
		if err != nil {
			return 0
		}
		return v
	}

	var records []models.MatchRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus row %d: %w", line, err)
		}
		line++

		result := field(row, "result")
		if opts.CompletedOnly && result == "" {
			continue
		}

		date, err := parseDate(field(row, "date"))
		if err != nil {
			return nil, fmt.Errorf("corpus row %d: %w", line, err)
		}

		clock := field(row, "time")
		if opts.NormalizeTimes {
			clock = models.NormalizeKickoffTime(clock)
		}

		records = append(records, models.MatchRecord{
			Team:          field(row, "team"),
			Date:          date,
			Time:          clock,
			Round:         field(row, "round"),
			Venue:         field(row, "venue"),
			Opponent:      field(row, "opponent"),
			Result:        result,
			GoalsFor:      stat(row, "gf"),
			GoalsAgainst:  stat(row, "ga"),
			Shots:         stat(row, "sh"),
			ShotsOnTarget: stat(row, "sot"),
			ShotDistance:  stat(row, "dist"),
			FreeKicks:     stat(row, "fk"),
			PenaltyGoals:  stat(row, "pk"),
			PenaltyTries:  stat(row, "pkatt"),
		})
	}

	return records, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}
