package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-predictor/internal/corpus"
)

// ScheduleFetcher downloads the current-season schedule export and stages
// it at the path the schedule loader reads from.
type ScheduleFetcher struct {
	client   *RateLimitedHTTPClient
	url      string
	destPath string
	logger   *logrus.Logger
}

// NewScheduleFetcher creates a schedule fetcher.
func NewScheduleFetcher(client *RateLimitedHTTPClient, url, destPath string, logger *logrus.Logger) *ScheduleFetcher {
	return &ScheduleFetcher{
		client:   client,
		url:      url,
		destPath: destPath,
		logger:   logger,
	}
}

// Refresh downloads the schedule CSV, validates that it parses as a match
// corpus, and atomically replaces the staged file. A bad download never
// clobbers a good local copy.
func (f *ScheduleFetcher) Refresh(ctx context.Context) error {
	resp, err := f.client.Get(ctx, f.url)
	if err != nil {
		return fmt.Errorf("failed to download schedule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("schedule download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read schedule body: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.destPath), "schedule-*.csv")
	if err != nil {
		return fmt.Errorf("failed to stage schedule: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write staged schedule: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close staged schedule: %w", err)
	}

	// Validate before replacing the live file.
	staged, err := os.Open(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to reopen staged schedule: %w", err)
	}
	_, parseErr := corpus.ParseMatches(staged, corpus.ParseOptions{CompletedOnly: true, NormalizeTimes: true})
	staged.Close()
	if parseErr != nil {
		return fmt.Errorf("downloaded schedule failed validation: %w", parseErr)
	}

	if err := os.Rename(tmpPath, f.destPath); err != nil {
		return fmt.Errorf("failed to replace schedule file: %w", err)
	}

	f.logger.WithFields(logrus.Fields{
		"url":  f.url,
		"path": f.destPath,
		"size": len(body),
	}).Info("Live schedule refreshed")
	return nil
}
