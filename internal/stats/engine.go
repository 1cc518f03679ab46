// Package stats derives per-player and per-game analytics from game event
// logs. Every computation here is a pure fold over one or more logs: no
// side effects, safe to run concurrently with ledger commands on whatever
// snapshot the caller holds.
package stats

import "match-ledger-service/internal/attribution"

// Engine computes statistics. The attribution extractor is the only
// dependency; swap it to change how names are read out of messages.
type Engine struct {
	extractor attribution.Extractor
}

// NewEngine builds an Engine. A nil extractor falls back to the default
// regex-based one.
func NewEngine(extractor attribution.Extractor) *Engine {
	if extractor == nil {
		extractor = attribution.New()
	}
	return &Engine{extractor: extractor}
}
