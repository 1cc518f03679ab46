package stats

import (
	"match-ledger-service/internal/domain"
	"match-ledger-service/internal/possession"
)

const closeGameMargin = 2

// GameStats assembles the full per-game analytics payload.
func (e *Engine) GameStats(game domain.Game) domain.AdvancedStats {
	return domain.AdvancedStats{
		GameID:    game.ID,
		Players:   e.PlayerStats(game),
		Momentum:  Momentum(game),
		HalfSplit: SplitByHalf(game),
		Timeouts:  TimeoutConversion(game),
		CloseGame: CloseGamePerformance(game),
	}
}

// Momentum scans the score differential after every goal: biggest lead,
// biggest deficit, lead changes, and the largest deficit erased.
func Momentum(game domain.Game) domain.MomentumStats {
	var m domain.MomentumStats
	lastSign := 0
	runningMin := 0

	for _, goal := range game.Goals() {
		diff := goal.ScoreSnapshot.Diff()

		if diff > m.LargestLead {
			m.LargestLead = diff
		}
		if -diff > m.LargestDeficit {
			m.LargestDeficit = -diff
		}

		sign := 0
		switch {
		case diff > 0:
			sign = 1
		case diff < 0:
			sign = -1
		}
		if sign != 0 && lastSign != 0 && sign != lastSign {
			m.LeadChanges++
		}
		if sign != 0 {
			lastSign = sign
		}

		// A comeback is ground regained from the lowest point so far.
		if runningMin < 0 && diff-runningMin > m.LargestComeback {
			m.LargestComeback = diff - runningMin
		}
		if diff < runningMin {
			runningMin = diff
		}
	}
	return m
}

// SplitByHalf reports the score differential accumulated in each half.
// Without a recorded HALFTIME event everything lands in the first half.
func SplitByHalf(game domain.Game) domain.HalfSplit {
	finalDiff := game.Score.Diff()

	for _, ev := range game.Events {
		if ev.Type != domain.EventHalftime {
			continue
		}
		halftimeDiff := ev.ScoreSnapshot.Diff()
		return domain.HalfSplit{
			FirstHalfDiff:  halftimeDiff,
			SecondHalfDiff: finalDiff - halftimeDiff,
			HalftimeNoted:  true,
		}
	}

	return domain.HalfSplit{FirstHalfDiff: finalDiff}
}

// TimeoutConversion checks, for each of our timeouts, whether the next
// goal was ours. Timeouts with no goal after them still count as taken.
func TimeoutConversion(game domain.Game) domain.TimeoutStats {
	var t domain.TimeoutStats
	events := game.Events

	for i, ev := range events {
		if ev.Type != domain.EventTimeout || ev.Team == domain.SideThem {
			continue
		}
		t.Taken++
		for _, later := range events[i+1:] {
			if later.Type != domain.EventGoal {
				continue
			}
			if later.Team == domain.SideUs {
				t.Converted++
			}
			break
		}
	}

	t.ConversionRate = possession.Percentage(t.Converted, t.Taken)
	return t
}

// CloseGamePerformance counts goals scored while the game was within two
// points before the goal.
func CloseGamePerformance(game domain.Game) domain.CloseGameStats {
	var c domain.CloseGameStats
	prev := domain.Score{}

	for _, goal := range game.Goals() {
		diff := prev.Diff()
		if diff >= -closeGameMargin && diff <= closeGameMargin {
			if goal.Team == domain.SideUs {
				c.OurGoals++
			} else {
				c.TheirGoals++
			}
		}
		prev = goal.ScoreSnapshot
	}
	return c
}
