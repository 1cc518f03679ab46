package store

import (
	"context"

	"match-ledger-service/internal/domain"
)

// Store is the durable snapshot contract the ledger persists through. One
// record per game; the full ordered event log is kept verbatim, derived
// fields are cached columns.
type Store interface {
	SaveGame(ctx context.Context, game domain.Game) error
	GetGame(ctx context.Context, id string) (domain.Game, error)
	ListGames(ctx context.Context) ([]domain.Game, error)
	DeleteGame(ctx context.Context, id string) error
}
