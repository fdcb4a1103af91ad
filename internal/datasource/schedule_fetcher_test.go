package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scheduleCSV = `Date,Time,Round,Venue,Result,GF,GA,Opponent,Team
2025-08-16,12:30,Matchweek 1,Home,W,3,1,Wolves,Manchester City
2025-12-20,15:00,Matchweek 17,Home,,,,Chelsea,Manchester City
`

func testFetcher(t *testing.T, url string) (*ScheduleFetcher, string) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 100
	client := NewRateLimitedHTTPClient(cfg, nil)

	dest := filepath.Join(t.TempDir(), "schedule.csv")
	return NewScheduleFetcher(client, url, dest, logger), dest
}

func TestRefreshDownloadsAndStagesSchedule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, scheduleCSV)
	}))
	defer server.Close()

	fetcher, dest := testFetcher(t, server.URL)
	require.NoError(t, fetcher.Refresh(context.Background()))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, scheduleCSV, string(data))
}

func TestRefreshRejectsInvalidPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not a csv export</html>")
	}))
	defer server.Close()

	fetcher, dest := testFetcher(t, server.URL)

	// Seed a good local copy; a bad download must not clobber it.
	require.NoError(t, os.WriteFile(dest, []byte(scheduleCSV), 0o644))
	require.Error(t, fetcher.Refresh(context.Background()))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, scheduleCSV, string(data))
}

func TestRefreshNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher, _ := testFetcher(t, server.URL)
	err := fetcher.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
