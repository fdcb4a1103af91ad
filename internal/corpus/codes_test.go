package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/match-predictor/internal/models"
)

func TestCodeBookSortedAssignment(t *testing.T) {
	book := NewCodeBook([]string{"Home", "Away", "Home", "Neutral"})

	assert.Equal(t, 3, book.Len())
	assert.Equal(t, 0, book.Code("Away"))
	assert.Equal(t, 1, book.Code("Home"))
	assert.Equal(t, 2, book.Code("Neutral"))
	assert.Equal(t, -1, book.Code("Moon"))
}

func tableWithOpponents(opponents ...string) *Table {
	records := make([]models.MatchRecord, len(opponents))
	for i, opp := range opponents {
		records[i] = models.MatchRecord{Team: "X", Opponent: opp}
	}
	return NewTable(records)
}

func TestResolveOpponentCodeModeOfMatches(t *testing.T) {
	table := tableWithOpponents(
		"Manchester United", "Manchester United", "Manchester City", "Liverpool",
	)

	// First token "Manchester" matches both clubs; United appears more often.
	code := ResolveOpponentCode(table, "Manchester United FC")
	assert.Equal(t, table.OpponentCodes.Code("Manchester United"), code)
}

func TestResolveOpponentCodeTieBreaksSmaller(t *testing.T) {
	table := tableWithOpponents("Manchester City", "Manchester United")

	code := ResolveOpponentCode(table, "Manchester")
	// One occurrence each; City sorts first and has the smaller code.
	assert.Equal(t, table.OpponentCodes.Code("Manchester City"), code)
}

func TestResolveOpponentCodeFirstTokenOnly(t *testing.T) {
	table := tableWithOpponents("Leeds United", "Newcastle United")

	// "United" is never consulted; only "Leeds" is.
	code := ResolveOpponentCode(table, "Leeds United")
	assert.Equal(t, table.OpponentCodes.Code("Leeds United"), code)
}

func TestResolveOpponentCodeCaseInsensitive(t *testing.T) {
	table := tableWithOpponents("Arsenal")
	assert.Equal(t, table.OpponentCodes.Code("Arsenal"), ResolveOpponentCode(table, "ARSENAL"))
}

func TestResolveOpponentCodeDefault(t *testing.T) {
	table := tableWithOpponents("Arsenal", "Chelsea")
	assert.Equal(t, DefaultOpponentCode, ResolveOpponentCode(table, "Real Madrid"))
	assert.Equal(t, DefaultOpponentCode, ResolveOpponentCode(table, "   "))
}
