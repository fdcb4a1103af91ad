package corpus

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-predictor/internal/models"
)

// FileLoader reads a match corpus from the first readable path in an
// ordered candidate list.
type FileLoader struct {
	name   string
	paths  []string
	opts   ParseOptions
	logger *logrus.Logger
}

// NewHistoricalLoader builds a loader for the historical match corpus.
func NewHistoricalLoader(paths []string, logger *logrus.Logger) *FileLoader {
	return &FileLoader{
		name:   "historical",
		paths:  paths,
		opts:   ParseOptions{},
		logger: logger,
	}
}

// NewScheduleLoader builds a loader for the current-season schedule
// corpus. Unplayed fixtures are dropped and time strings are normalized.
func NewScheduleLoader(paths []string, logger *logrus.Logger) *FileLoader {
	return &FileLoader{
		name:   "schedule",
		paths:  paths,
		opts:   ParseOptions{CompletedOnly: true, NormalizeTimes: true},
		logger: logger,
	}
}

// Name returns the loader's corpus name.
func (l *FileLoader) Name() string {
	return l.name
}

// Load reads and parses the corpus. Missing files across every candidate
// path surface as a resource-unavailable error listing what was tried.
func (l *FileLoader) Load(ctx context.Context) (*Table, error) {
	for _, path := range l.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := os.Open(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open %s corpus at %s: %w", l.name, path, err)
		}

		records, parseErr := ParseMatches(f, l.opts)
		f.Close()
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse %s corpus at %s: %w", l.name, path, parseErr)
		}

		l.logger.WithFields(logrus.Fields{
			"corpus": l.name,
			"path":   path,
			"rows":   len(records),
		}).Debug("Corpus loaded")

		return NewTable(records), nil
	}

	return nil, fmt.Errorf("%w: no %s corpus found, tried: %s",
		models.ErrCorpusUnavailable, l.name, strings.Join(l.paths, ", "))
}
