// Package possession classifies each point of a game as an offense hold or
// a defense break, given which line started the game.
package possession

import (
	"math"

	"match-ledger-service/internal/domain"
)

// Classify walks the ordered goal events of one game and splits them into
// O-line and D-line points. Possession flips after every goal: the side
// that conceded receives the next pull, so we are on offense next point
// exactly when the opponent just scored.
//
// Returns domain.ErrUnavailable when the starting possession is unknown,
// so callers can tell "no data" apart from a real zero.
func Classify(start domain.Possession, goals []domain.GameEvent) (domain.LineStats, error) {
	if !domain.ValidPossession(start) {
		return domain.LineStats{}, domain.ErrUnavailable
	}

	var stats domain.LineStats
	onOffense := start == domain.PossessionOffense

	for _, goal := range goals {
		if goal.Type != domain.EventGoal {
			continue
		}
		if onOffense {
			stats.OLinePoints++
			if goal.Team == domain.SideUs {
				stats.OLineHolds++
			}
		} else {
			stats.DLinePoints++
			if goal.Team == domain.SideUs {
				stats.DLineBreaks++
			}
		}
		onOffense = goal.Team == domain.SideThem
	}

	stats.OLineHoldPercentage = Percentage(stats.OLineHolds, stats.OLinePoints)
	stats.DLineBreakPercentage = Percentage(stats.DLineBreaks, stats.DLinePoints)
	return stats, nil
}

// Percentage returns round(100*num/denom) with half-up rounding, or 0 when
// the denominator is 0.
func Percentage(num, denom int) int {
	if denom == 0 {
		return 0
	}
	return int(math.Floor(float64(num)*100/float64(denom) + 0.5))
}
