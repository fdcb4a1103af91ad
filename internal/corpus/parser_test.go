package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historicalCSV = `date,time,round,venue,result,gf,ga,opponent,sh,sot,dist,fk,pk,pkatt,team
2021-08-14,15:00,Matchweek 1,Home,W,2,0,Leeds United,16,4,17.3,1,0,0,Manchester United
2021-08-22,14:00,Matchweek 2,Away,D,1,1,Southampton,12,3,18.1,0,0,0,Manchester United
`

const scheduleCSV = `Date,Time,Round,Venue,Result,GF,GA,Opponent,Team
2025-08-16,12:30 (16:30),Matchweek 1,Home,W,3,1,Wolves,Manchester City
2025-08-23,evening,Matchweek 2,Away,L,0,2,Spurs,Manchester City
2025-12-20,15:00,Matchweek 17,Home,,,,Chelsea,Manchester City
`

func TestParseMatchesHistorical(t *testing.T) {
	records, err := ParseMatches(strings.NewReader(historicalCSV), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Manchester United", first.Team)
	assert.Equal(t, "Leeds United", first.Opponent)
	assert.Equal(t, "W", first.Result)
	assert.Equal(t, 2.0, first.GoalsFor)
	assert.Equal(t, 17.3, first.ShotDistance)
	assert.Equal(t, "2021-08-14", first.Date.Format("2006-01-02"))
}

func TestParseMatchesScheduleOptions(t *testing.T) {
	records, err := ParseMatches(strings.NewReader(scheduleCSV), ParseOptions{
		CompletedOnly:  true,
		NormalizeTimes: true,
	})
	require.NoError(t, err)
	// The unplayed Chelsea fixture is dropped.
	require.Len(t, records, 2)

	assert.Equal(t, "12:30", records[0].Time)
	// Unparseable time falls back to the default clock.
	assert.Equal(t, "12:00", records[1].Time)
	// Shot-detail columns absent from the export are zero-filled.
	assert.Zero(t, records[0].Shots)
	assert.Zero(t, records[0].ShotDistance)
}

func TestParseMatchesCaseInsensitiveHeaders(t *testing.T) {
	csv := "DATE,VENUE,RESULT,OPPONENT,TEAM\n2025-01-01,Home,W,Chelsea,Arsenal\n"
	records, err := ParseMatches(strings.NewReader(csv), ParseOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Arsenal", records[0].Team)
}

func TestParseMatchesMissingRequiredColumn(t *testing.T) {
	csv := "date,venue,result,team\n2025-01-01,Home,W,Arsenal\n"
	_, err := ParseMatches(strings.NewReader(csv), ParseOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"opponent"`)
}

func TestParseMatchesBadDate(t *testing.T) {
	csv := "date,venue,result,opponent,team\nyesterday,Home,W,Chelsea,Arsenal\n"
	_, err := ParseMatches(strings.NewReader(csv), ParseOptions{})
	require.Error(t, err)
}

func TestNewTableDerivesCodes(t *testing.T) {
	records, err := ParseMatches(strings.NewReader(historicalCSV), ParseOptions{})
	require.NoError(t, err)

	table := NewTable(records)
	assert.Equal(t, 0, table.VenueCodes.Code("Away"))
	assert.Equal(t, 1, table.VenueCodes.Code("Home"))
	assert.Equal(t, 2, table.OpponentCodes.Len())
	assert.True(t, table.Teams()["Manchester United"])
}
