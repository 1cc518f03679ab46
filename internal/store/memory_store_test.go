package store

import (
	"context"
	"errors"
	"testing"

	"match-ledger-service/internal/domain"
)

func TestMemoryStoreSaveAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	game := domain.Game{ID: "g1", Status: domain.StatusNotStarted}
	if err := s.SaveGame(ctx, game); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetGame(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "g1" {
		t.Fatalf("expected g1, got %s", got.ID)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.GetGame(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	game := domain.Game{ID: "g1", Events: []domain.GameEvent{{ID: "ev-1"}}}
	if err := s.SaveGame(ctx, game); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := s.GetGame(ctx, "g1")
	got.Events[0].ID = "mutated"

	again, _ := s.GetGame(ctx, "g1")
	if again.Events[0].ID != "ev-1" {
		t.Fatalf("store leaked internal state: %s", again.Events[0].ID)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.SaveGame(ctx, domain.Game{ID: "g1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.DeleteGame(ctx, "g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteGame(ctx, "g1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	games, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected empty list, got %d", len(games))
	}
}
