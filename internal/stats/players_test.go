package stats

import (
	"testing"
	"time"

	"match-ledger-service/internal/domain"
)

type gameBuilder struct {
	game domain.Game
	now  time.Time
}

func newGame(id string) *gameBuilder {
	return &gameBuilder{
		game: domain.Game{
			ID:     id,
			Teams:  domain.Teams{Us: domain.Team{Name: "Hucks"}, Them: domain.Team{Name: "Rivals"}},
			Status: domain.StatusFinished,
		},
		now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *gameBuilder) event(t domain.EventType, side domain.TeamSide, msg string) *gameBuilder {
	return b.eventPlay(t, side, msg, "")
}

func (b *gameBuilder) eventPlay(t domain.EventType, side domain.TeamSide, msg string, play domain.DefensivePlay) *gameBuilder {
	if t == domain.EventGoal {
		if side == domain.SideUs {
			b.game.Score.Us++
		} else {
			b.game.Score.Them++
		}
	}
	b.now = b.now.Add(time.Minute)
	b.game.Events = append(b.game.Events, domain.GameEvent{
		ID:            b.game.ID + "-" + b.now.Format("150405"),
		GameID:        b.game.ID,
		Type:          t,
		Team:          side,
		Message:       msg,
		DefensivePlay: play,
		Timestamp:     b.now,
		ScoreSnapshot: b.game.Score,
	})
	return b
}

func (b *gameBuilder) build() domain.Game {
	return b.game
}

func findPlayer(t *testing.T, players []domain.PlayerStats, name string) domain.PlayerStats {
	t.Helper()
	for _, p := range players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("player %s not found in %+v", name, players)
	return domain.PlayerStats{}
}

func TestPlayerStatsGoalsAndAssists(t *testing.T) {
	game := newGame("g1").
		event(domain.EventGoal, domain.SideUs, "Sam to Alex").
		event(domain.EventGoal, domain.SideThem, "").
		event(domain.EventGoal, domain.SideUs, "Alex from Sam").
		build()

	players := NewEngine(nil).PlayerStats(game)

	alex := findPlayer(t, players, "Alex")
	if alex.Goals != 2 || alex.Assists != 0 {
		t.Fatalf("Alex: %+v", alex)
	}
	sam := findPlayer(t, players, "Sam")
	if sam.Assists != 2 || sam.Goals != 0 {
		t.Fatalf("Sam: %+v", sam)
	}

	// Sorted by goals, then assists, descending.
	if players[0].Name != "Alex" {
		t.Fatalf("expected Alex first, got %s", players[0].Name)
	}
}

func TestPlayerStatsDefensivePlayCreditsScorer(t *testing.T) {
	game := newGame("g1").
		eventPlay(domain.EventGoal, domain.SideUs, "Casey scores", domain.PlayBlock).
		eventPlay(domain.EventGoal, domain.SideUs, "Casey scores", domain.PlaySteal).
		build()

	casey := findPlayer(t, NewEngine(nil).PlayerStats(game), "Casey")
	if casey.Blocks != 1 || casey.Steals != 1 || casey.Goals != 2 {
		t.Fatalf("Casey: %+v", casey)
	}
}

func TestPlayerStatsUnattributableGoalCreditsNobody(t *testing.T) {
	game := newGame("g1").
		event(domain.EventGoal, domain.SideUs, "we scored!!").
		build()

	players := NewEngine(nil).PlayerStats(game)
	if len(players) != 0 {
		t.Fatalf("expected no players, got %+v", players)
	}
}

func TestPlayerStatsTouchFromNonGoalEvent(t *testing.T) {
	game := newGame("g1").
		event(domain.EventNote, "", "great layout from Jordan").
		event(domain.EventGoal, domain.SideUs, "Sam to Alex").
		build()

	jordan := findPlayer(t, NewEngine(nil).PlayerStats(game), "Jordan")
	if jordan.Touches != 1 || jordan.Goals != 0 {
		t.Fatalf("Jordan: %+v", jordan)
	}
}

func TestPlayerStatsPlusMinus(t *testing.T) {
	game := newGame("g1").
		event(domain.EventGoal, domain.SideUs, "Sam to Alex").
		event(domain.EventGoal, domain.SideThem, "Sam got beat deep").
		build()

	sam := findPlayer(t, NewEngine(nil).PlayerStats(game), "Sam")
	if sam.PlusMinus != 0 {
		t.Fatalf("expected Sam +1-1=0, got %d", sam.PlusMinus)
	}
	alex := findPlayer(t, NewEngine(nil).PlayerStats(game), "Alex")
	if alex.PlusMinus != 1 {
		t.Fatalf("expected Alex +1, got %d", alex.PlusMinus)
	}
}

func TestPlayerStatsPointsPlayedCapped(t *testing.T) {
	game := newGame("g1").
		event(domain.EventGoal, domain.SideUs, "Alex scores").
		event(domain.EventNote, "", "Alex Alex Alex").
		event(domain.EventNote, "", "Alex again").
		event(domain.EventNote, "", "Alex huge").
		build()

	alex := findPlayer(t, NewEngine(nil).PlayerStats(game), "Alex")
	if alex.PointsPlayed > 1 {
		t.Fatalf("points played must cap at total points (1), got %d", alex.PointsPlayed)
	}
}
