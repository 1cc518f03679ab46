package domain

import "time"

// EventType categorizes entries in a game's event log.
type EventType string

const (
	EventGameStart       EventType = "GAME_START"
	EventGoal            EventType = "GOAL"
	EventHalftime        EventType = "HALFTIME"
	EventSecondHalfStart EventType = "SECOND_HALF_START"
	EventGameEnd         EventType = "GAME_END"
	EventTimeout         EventType = "TIMEOUT"
	EventNote            EventType = "NOTE"
)

// TeamSide identifies which of the two sides an event belongs to.
type TeamSide string

const (
	SideUs   TeamSide = "us"
	SideThem TeamSide = "them"
)

// DefensivePlay marks how a goal-scoring possession was won.
type DefensivePlay string

const (
	PlayBlock DefensivePlay = "block"
	PlaySteal DefensivePlay = "steal"
)

// Score captures both sides' points.
type Score struct {
	Us   int `json:"us"`
	Them int `json:"them"`
}

// ForSide returns the score for one side.
func (s Score) ForSide(side TeamSide) int {
	if side == SideUs {
		return s.Us
	}
	return s.Them
}

// Diff returns the signed differential from our perspective.
func (s Score) Diff() int {
	return s.Us - s.Them
}

// GameEvent is one immutable entry in a game's log. Events are never
// mutated after append; corrections happen by retracting the newest entry.
type GameEvent struct {
	ID               string        `json:"id"`
	GameID           string        `json:"gameId"`
	Type             EventType     `json:"type"`
	Timestamp        time.Time     `json:"timestamp"`
	ScoreSnapshot    Score         `json:"scoreSnapshot"`
	Team             TeamSide      `json:"team,omitempty"`
	Message          string        `json:"message,omitempty"`
	DefensivePlay    DefensivePlay `json:"defensivePlay,omitempty"`
	AttributedSource string        `json:"attributedSource,omitempty"`
	// Backfilled marks events inserted with a caller-supplied timestamp.
	// They update the log but suppress status/clock side effects.
	Backfilled bool `json:"backfilled,omitempty"`
	// ScoreOverridden marks a backfilled goal whose snapshot was supplied
	// by the caller rather than derived from the running score.
	ScoreOverridden bool `json:"scoreOverridden,omitempty"`
}

// ValidEventType reports whether t is one of the known event types.
func ValidEventType(t EventType) bool {
	switch t {
	case EventGameStart, EventGoal, EventHalftime, EventSecondHalfStart,
		EventGameEnd, EventTimeout, EventNote:
		return true
	}
	return false
}

// ValidTeamSide reports whether s names one of the two sides.
func ValidTeamSide(s TeamSide) bool {
	return s == SideUs || s == SideThem
}

// ValidDefensivePlay reports whether p is a known defensive play.
func ValidDefensivePlay(p DefensivePlay) bool {
	return p == PlayBlock || p == PlaySteal
}
