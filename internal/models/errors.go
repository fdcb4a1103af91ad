package models

import "errors"

// Custom errors
var (
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrTeamNotFound      = errors.New("team not found in schedule data")
	ErrNotEnoughMatches  = errors.New("insufficient match history")
	ErrNotFound          = errors.New("record not found")
	ErrCorpusUnavailable = errors.New("match corpus unavailable")
)
