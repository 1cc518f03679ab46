package domain

import "time"

// GameStatus tracks where a game sits in its lifecycle.
type GameStatus string

const (
	StatusNotStarted GameStatus = "NOT_STARTED"
	StatusFirstHalf  GameStatus = "FIRST_HALF"
	StatusHalftime   GameStatus = "HALFTIME"
	StatusSecondHalf GameStatus = "SECOND_HALF"
	StatusFinished   GameStatus = "FINISHED"
)

// Possession is tri-state: unknown until someone tells us which line
// started the game.
type Possession string

const (
	PossessionUnknown Possession = ""
	PossessionOffense Possession = "offense"
	PossessionDefense Possession = "defense"
)

// ValidPossession reports whether p is offense or defense (not unknown).
func ValidPossession(p Possession) bool {
	return p == PossessionOffense || p == PossessionDefense
}

// Team names one side of a game.
type Team struct {
	Name string `json:"name"`
}

// Teams holds both sides.
type Teams struct {
	Us   Team `json:"us"`
	Them Team `json:"them"`
}

// GameMeta carries directory metadata the ledger itself never interprets.
type GameMeta struct {
	Tournament string `json:"tournament,omitempty"`
	Date       string `json:"date,omitempty"`
	Order      int    `json:"order,omitempty"`
}

// Game is the per-match record: configuration plus the event log plus the
// derived view. Score and status are recomputable from Events; they are
// cached here for fast reads.
type Game struct {
	ID                 string      `json:"id"`
	Teams              Teams       `json:"teams"`
	Score              Score       `json:"score"`
	Status             GameStatus  `json:"status"`
	Events             []GameEvent `json:"events"`
	StartedAt          *time.Time  `json:"startedAt,omitempty"`
	FinishedAt         *time.Time  `json:"finishedAt,omitempty"`
	StartingPossession Possession  `json:"startingPossession,omitempty"`
	Meta               GameMeta    `json:"meta,omitempty"`
}

// Goals returns the game's GOAL events in log order.
func (g Game) Goals() []GameEvent {
	goals := make([]GameEvent, 0, len(g.Events))
	for _, ev := range g.Events {
		if ev.Type == EventGoal {
			goals = append(goals, ev)
		}
	}
	return goals
}

// Won reports whether we finished ahead. Only meaningful for finished games.
func (g Game) Won() bool {
	return g.Score.Us > g.Score.Them
}

// ListResponse is the payload returned by the games listing endpoint.
type ListResponse struct {
	Count int    `json:"count"`
	Games []Game `json:"games"`
}
