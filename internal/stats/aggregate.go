package stats

import (
	"sort"

	"match-ledger-service/internal/domain"
)

const blowoutMargin = 5

// Aggregate folds a set of games into cross-game player totals, team
// trends, and player chemistry. Games are taken in the order given;
// streak math assumes the caller passes them chronologically.
func (e *Engine) Aggregate(games []domain.Game) domain.AggregateReport {
	return domain.AggregateReport{
		Players:   e.AggregatePlayers(games),
		Trends:    TeamTrendsFor(games),
		Chemistry: e.Chemistry(games),
	}
}

// AggregatePlayers sums per-game player stats and derives per-game
// averages over the games each player actually appeared in.
func (e *Engine) AggregatePlayers(games []domain.Game) []domain.AggregatedPlayerStats {
	totals := make(map[string]*domain.AggregatedPlayerStats)

	for _, game := range games {
		for _, p := range e.PlayerStats(game) {
			agg, ok := totals[p.Name]
			if !ok {
				agg = &domain.AggregatedPlayerStats{Name: p.Name}
				totals[p.Name] = agg
			}
			agg.GamesPlayed++
			agg.Goals += p.Goals
			agg.Assists += p.Assists
			agg.Blocks += p.Blocks
			agg.Steals += p.Steals
		}
	}

	result := make([]domain.AggregatedPlayerStats, 0, len(totals))
	for _, agg := range totals {
		if agg.GamesPlayed > 0 {
			agg.GoalsPerGame = float64(agg.Goals) / float64(agg.GamesPlayed)
			agg.AssistsPerGame = float64(agg.Assists) / float64(agg.GamesPlayed)
		}
		result = append(result, *agg)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Goals != result[j].Goals {
			return result[i].Goals > result[j].Goals
		}
		if result[i].Assists != result[j].Assists {
			return result[i].Assists > result[j].Assists
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// TeamTrendsFor computes the win/loss record, streaks, scoring patterns,
// and per-opponent results over finished games.
func TeamTrendsFor(games []domain.Game) domain.TeamTrends {
	trends := domain.TeamTrends{}
	h2h := make(map[string]*domain.HeadToHead)

	currentRun := 0 // positive while winning, negative while losing
	var victoryMargins, defeatMargins []int

	for _, game := range games {
		if game.Status != domain.StatusFinished {
			continue
		}
		trends.GamesPlayed++

		margin := game.Score.Diff()
		if margin >= blowoutMargin || margin <= -blowoutMargin {
			trends.Patterns.Blowouts++
		}
		if margin >= -closeGameMargin && margin <= closeGameMargin {
			trends.Patterns.CloseGames++
		}

		opponent := game.Teams.Them.Name
		rec, ok := h2h[opponent]
		if !ok {
			rec = &domain.HeadToHead{Opponent: opponent}
			h2h[opponent] = rec
		}

		if game.Won() {
			trends.Wins++
			rec.Wins++
			victoryMargins = append(victoryMargins, margin)
			if currentRun > 0 {
				currentRun++
			} else {
				currentRun = 1
			}
			if currentRun > trends.LongestWinStreak {
				trends.LongestWinStreak = currentRun
			}
		} else {
			trends.Losses++
			rec.Losses++
			defeatMargins = append(defeatMargins, -margin)
			if currentRun < 0 {
				currentRun--
			} else {
				currentRun = -1
			}
			if -currentRun > trends.LongestLossStreak {
				trends.LongestLossStreak = -currentRun
			}
		}

		run, drought := longestRuns(game)
		if run > trends.Patterns.LongestRun {
			trends.Patterns.LongestRun = run
		}
		if drought > trends.Patterns.LongestDrought {
			trends.Patterns.LongestDrought = drought
		}
	}

	trends.CurrentStreak = currentRun
	trends.Patterns.CommonVictoryMargin = mostCommon(victoryMargins)
	trends.Patterns.CommonDefeatMargin = mostCommon(defeatMargins)

	for _, rec := range h2h {
		trends.HeadToHead = append(trends.HeadToHead, *rec)
	}
	sort.Slice(trends.HeadToHead, func(i, j int) bool {
		return trends.HeadToHead[i].Opponent < trends.HeadToHead[j].Opponent
	})
	return trends
}

// Chemistry counts, for every unordered player pair, the games they share
// and the assists between them. Pairs below two shared games are noise
// and filtered out.
func (e *Engine) Chemistry(games []domain.Game) []domain.PlayerChemistry {
	type pairKey struct{ a, b string }
	norm := func(a, b string) pairKey {
		if a > b {
			a, b = b, a
		}
		return pairKey{a, b}
	}

	shared := make(map[pairKey]int)
	assists := make(map[pairKey]int)

	for _, game := range games {
		var roster []string
		for _, p := range e.PlayerStats(game) {
			roster = append(roster, p.Name)
		}
		for i := 0; i < len(roster); i++ {
			for j := i + 1; j < len(roster); j++ {
				shared[norm(roster[i], roster[j])]++
			}
		}

		for _, ev := range game.Events {
			if ev.Type != domain.EventGoal {
				continue
			}
			att := e.extractor.Extract(ev.Message)
			if att.Scorer != "" && att.Assister != "" && att.Scorer != att.Assister {
				assists[norm(att.Scorer, att.Assister)]++
			}
		}
	}

	var result []domain.PlayerChemistry
	for key, count := range shared {
		if count < 2 {
			continue
		}
		result = append(result, domain.PlayerChemistry{
			PlayerA:     key.a,
			PlayerB:     key.b,
			SharedGames: count,
			Assists:     assists[key],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Assists != result[j].Assists {
			return result[i].Assists > result[j].Assists
		}
		if result[i].SharedGames != result[j].SharedGames {
			return result[i].SharedGames > result[j].SharedGames
		}
		if result[i].PlayerA != result[j].PlayerA {
			return result[i].PlayerA < result[j].PlayerA
		}
		return result[i].PlayerB < result[j].PlayerB
	})
	return result
}

// longestRuns finds the longest consecutive scoring run and the longest
// drought (their consecutive goals) within one game.
func longestRuns(game domain.Game) (run, drought int) {
	current := 0
	currentSide := domain.TeamSide("")

	for _, goal := range game.Goals() {
		if goal.Team == currentSide {
			current++
		} else {
			current = 1
			currentSide = goal.Team
		}
		if currentSide == domain.SideUs && current > run {
			run = current
		}
		if currentSide == domain.SideThem && current > drought {
			drought = current
		}
	}
	return run, drought
}

// mostCommon returns the modal value, preferring the smaller margin on
// ties. Zero when the slice is empty.
func mostCommon(values []int) int {
	if len(values) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}

	best, bestCount := 0, -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best
}
