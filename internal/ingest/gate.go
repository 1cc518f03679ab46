// Package ingest is the boundary to the free-text classification front
// end. The front end has already decided what an utterance means; this
// package only checks the confidence clears the configured threshold and
// shapes the candidate into a ledger command.
package ingest

import (
	"fmt"
	"time"

	"match-ledger-service/internal/domain"
	"match-ledger-service/internal/ledger"
)

// DefaultThreshold admits candidates the classifier is reasonably sure of.
const DefaultThreshold = 0.7

// Candidate is a pre-classified event proposal from the ingestion front
// end.
type Candidate struct {
	Type               domain.EventType     `json:"type"`
	Team               domain.TeamSide      `json:"team,omitempty"`
	Confidence         float64              `json:"confidence"`
	DefensivePlay      domain.DefensivePlay `json:"defensivePlay,omitempty"`
	StartingPossession domain.Possession    `json:"startingPossession,omitempty"`
	Message            string               `json:"message,omitempty"`
	Timestamp          *time.Time           `json:"timestamp,omitempty"`
	ScoreOverride      *domain.Score        `json:"scoreOverride,omitempty"`
	Source             string               `json:"source,omitempty"`
}

// Gate screens candidates by confidence.
type Gate struct {
	threshold float64
}

// NewGate builds a Gate; thresholds at or below zero fall back to the
// default.
func NewGate(threshold float64) *Gate {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Gate{threshold: threshold}
}

// Threshold reports the configured cutoff.
func (g *Gate) Threshold() float64 {
	return g.threshold
}

// Params shapes the candidate into an append command.
func (c Candidate) Params() ledger.AppendParams {
	return ledger.AppendParams{
		Type:               c.Type,
		Team:               c.Team,
		Message:            c.Message,
		DefensivePlay:      c.DefensivePlay,
		StartingPossession: c.StartingPossession,
		Timestamp:          c.Timestamp,
		ScoreOverride:      c.ScoreOverride,
		Source:             c.Source,
	}
}

// Admit converts a candidate into an append command, rejecting candidates
// below the confidence threshold.
func (g *Gate) Admit(c Candidate) (ledger.AppendParams, error) {
	if c.Confidence < g.threshold {
		return ledger.AppendParams{}, fmt.Errorf("%w: confidence %.2f below threshold %.2f",
			domain.ErrValidation, c.Confidence, g.threshold)
	}
	return c.Params(), nil
}
