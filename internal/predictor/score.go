package predictor

import "math"

// drawPrior is introduced when both per-side models claim a win with a
// combined probability above 1, which would otherwise double-count.
const drawPrior = 0.25

// favoriteMargin is the win-probability gap beyond which the scoreline is
// biased toward the favored side.
const favoriteMargin = 0.15

// normalizeProbabilities turns the two raw per-side win probabilities into
// a home/draw/away distribution summing to 1. When the raw values exceed 1
// combined, a fixed draw prior is introduced and all three renormalized;
// otherwise the draw takes the remainder.
func normalizeProbabilities(homeWin, awayWin float64) (home, draw, away float64) {
	if homeWin+awayWin > 1.0 {
		total := homeWin + awayWin + drawPrior
		return homeWin / total, drawPrior / total, awayWin / total
	}
	return homeWin, 1 - homeWin - awayWin, awayWin
}

// scoreline derives an indicative score from rolling goal averages and the
// win probabilities. Explicitly a heuristic display value, not a
// calibrated regression: attack form is weighted against the opponent's
// defensive form, with a small home-advantage scaling, then nudged toward
// a clear favorite.
func scoreline(homeWin, awayWin float64, homeRolling, awayRolling map[string]float64) (int, int) {
	baseHome := (homeRolling["gf_rolling"]*0.7 + awayRolling["ga_rolling"]*0.3) * 1.05
	baseAway := (awayRolling["gf_rolling"]*0.7 + homeRolling["ga_rolling"]*0.3) * 0.95

	switch {
	case homeWin > awayWin+favoriteMargin:
		return atLeast(1, baseHome+0.3), atLeast(0, baseAway-0.2)
	case awayWin > homeWin+favoriteMargin:
		return atLeast(0, baseHome-0.2), atLeast(1, baseAway+0.3)
	default:
		return atLeast(0, baseHome), atLeast(0, baseAway)
	}
}

func atLeast(floor int, v float64) int {
	rounded := int(math.Round(v))
	if rounded < floor {
		return floor
	}
	return rounded
}
