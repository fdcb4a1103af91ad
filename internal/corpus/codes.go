package corpus

import (
	"sort"
	"strings"
)

// DefaultOpponentCode is used when fuzzy opponent resolution finds no
// historical match for a team name.
const DefaultOpponentCode = 10

// CodeBook maps string categorical values to stable integer codes.
// Codes are assigned by sorted order of the distinct values, so two books
// built from the same value set agree, but books built from different
// datasets generally do not.
type CodeBook struct {
	codes map[string]int
}

// NewCodeBook derives codes from the given values. Duplicates are fine.
func NewCodeBook(values []string) *CodeBook {
	seen := make(map[string]bool, len(values))
	distinct := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			distinct = append(distinct, v)
		}
	}
	sort.Strings(distinct)

	codes := make(map[string]int, len(distinct))
	for i, v := range distinct {
		codes[v] = i
	}
	return &CodeBook{codes: codes}
}

// Code returns the code for a value, or -1 when the value is unknown.
func (b *CodeBook) Code(value string) int {
	if code, ok := b.codes[value]; ok {
		return code
	}
	return -1
}

// Len returns the number of distinct values in the book.
func (b *CodeBook) Len() int {
	return len(b.codes)
}

// ResolveOpponentCode resolves a team's opponent code against a corpus the
// team may be named differently in. It matches historical opponent names
// containing the team's first name token (case-insensitive) and takes the
// statistical mode of their codes; ties break toward the smaller code.
// Falls back to DefaultOpponentCode when nothing matches.
func ResolveOpponentCode(table *Table, teamName string) int {
	fields := strings.Fields(teamName)
	if len(fields) == 0 {
		return DefaultOpponentCode
	}
	token := strings.ToLower(fields[0])

	counts := make(map[int]int)
	for _, r := range table.Records {
		if strings.Contains(strings.ToLower(r.Opponent), token) {
			counts[table.OpponentCodes.Code(r.Opponent)]++
		}
	}
	if len(counts) == 0 {
		return DefaultOpponentCode
	}

	best, bestCount := 0, -1
	for code, count := range counts {
		if count > bestCount || (count == bestCount && code < best) {
			best, bestCount = code, count
		}
	}
	return best
}
