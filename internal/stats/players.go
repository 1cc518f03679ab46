package stats

import (
	"sort"

	"match-ledger-service/internal/domain"
)

// PlayerStats folds one game's log into per-player counting stats.
//
// Attribution is best effort: a goal whose message yields no names still
// counts for the team, it just credits nobody. Points played is an
// approximation (the source data has no lineup field): goals + assists +
// half of additional touches, capped at the number of points in the game.
func (e *Engine) PlayerStats(game domain.Game) []domain.PlayerStats {
	players := make(map[string]*domain.PlayerStats)
	totalPoints := 0

	ensure := func(name string) *domain.PlayerStats {
		p, ok := players[name]
		if !ok {
			p = &domain.PlayerStats{Name: name}
			players[name] = p
		}
		return p
	}

	for _, ev := range game.Events {
		att := e.extractor.Extract(ev.Message)

		if ev.Type != domain.EventGoal {
			for _, name := range att.Names {
				ensure(name).Touches++
			}
			continue
		}

		totalPoints++

		if att.Scorer != "" {
			scorer := ensure(att.Scorer)
			scorer.Goals++
			switch ev.DefensivePlay {
			case domain.PlayBlock:
				scorer.Blocks++
			case domain.PlaySteal:
				scorer.Steals++
			}
		}
		if att.Assister != "" && att.Assister != att.Scorer {
			ensure(att.Assister).Assists++
		}

		// Everyone recognized on the point shares its net score delta.
		delta := 1
		if ev.Team == domain.SideThem {
			delta = -1
		}
		for _, name := range att.Names {
			p := ensure(name)
			p.PlusMinus += delta
			if name != att.Scorer && name != att.Assister {
				p.Touches++
			}
		}
	}

	result := make([]domain.PlayerStats, 0, len(players))
	for _, p := range players {
		p.PointsPlayed = pointsPlayed(*p, totalPoints)
		result = append(result, *p)
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

func pointsPlayed(p domain.PlayerStats, totalPoints int) int {
	played := p.Goals + p.Assists + (p.Touches+1)/2
	if played > totalPoints {
		return totalPoints
	}
	return played
}
