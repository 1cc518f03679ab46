// Package eventlog holds the ordered, append-only event sequence for one
// game. The log is the single source of truth; every derived field on a
// game can be rebuilt by replaying it.
package eventlog

import (
	"sort"

	"match-ledger-service/internal/domain"
)

// Log is an ordered sequence of immutable game events. Append keeps the
// sequence sorted by timestamp so backfilled events land where they belong.
// Log methods do not lock; the owning actor serializes access.
type Log struct {
	events []domain.GameEvent
}

// New builds a log from an existing ordered sequence. The slice is copied
// and re-sorted in case the caller's ordering drifted.
func New(events []domain.GameEvent) *Log {
	l := &Log{events: make([]domain.GameEvent, len(events))}
	copy(l.events, events)
	l.sort()
	return l
}

// Append inserts an event, maintaining timestamp order, and returns the
// new ordered sequence.
func (l *Log) Append(ev domain.GameEvent) []domain.GameEvent {
	l.events = append(l.events, ev)
	l.sort()
	return l.Replay()
}

// RemoveLast removes and returns the event with the greatest timestamp.
func (l *Log) RemoveLast() (domain.GameEvent, error) {
	if len(l.events) == 0 {
		return domain.GameEvent{}, domain.ErrEmptyLog
	}
	last := l.events[len(l.events)-1]
	l.events = l.events[:len(l.events)-1]
	return last, nil
}

// Last returns the newest event without removing it.
func (l *Log) Last() (domain.GameEvent, bool) {
	if len(l.events) == 0 {
		return domain.GameEvent{}, false
	}
	return l.events[len(l.events)-1], true
}

// Replay returns a copy of the ordered sequence for downstream folds.
func (l *Log) Replay() []domain.GameEvent {
	out := make([]domain.GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Len reports how many events the log holds.
func (l *Log) Len() int {
	return len(l.events)
}

func (l *Log) sort() {
	sort.SliceStable(l.events, func(i, j int) bool {
		return l.events[i].Timestamp.Before(l.events[j].Timestamp)
	})
}
