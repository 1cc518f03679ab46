package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"match-ledger-service/internal/domain"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "games.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleGame(id string) domain.Game {
	started := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return domain.Game{
		ID:     id,
		Teams:  domain.Teams{Us: domain.Team{Name: "Hucks"}, Them: domain.Team{Name: "Rivals"}},
		Score:  domain.Score{Us: 3, Them: 2},
		Status: domain.StatusFirstHalf,
		Events: []domain.GameEvent{
			{
				ID:            "ev-1",
				GameID:        id,
				Type:          domain.EventGameStart,
				Timestamp:     started,
				ScoreSnapshot: domain.Score{},
			},
			{
				ID:            "ev-2",
				GameID:        id,
				Type:          domain.EventGoal,
				Team:          domain.SideUs,
				Message:       "Sam to Alex",
				Timestamp:     started.Add(time.Minute),
				ScoreSnapshot: domain.Score{Us: 1},
			},
		},
		StartedAt:          &started,
		StartingPossession: domain.PossessionOffense,
		Meta:               domain.GameMeta{Tournament: "regionals", Date: "2025-06-01", Order: 2},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	want := sampleGame("g1")

	if err := s.SaveGame(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetGame(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != want.ID || got.Teams != want.Teams || got.Score != want.Score {
		t.Fatalf("snapshot mismatch: got %+v", got)
	}
	if got.Status != domain.StatusFirstHalf || got.StartingPossession != domain.PossessionOffense {
		t.Fatalf("derived fields mismatch: %+v", got)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(*want.StartedAt) {
		t.Fatalf("startedAt mismatch: %v", got.StartedAt)
	}
	if got.FinishedAt != nil {
		t.Fatalf("finishedAt should be nil, got %v", got.FinishedAt)
	}
	if len(got.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got.Events))
	}
	if got.Events[1].Message != "Sam to Alex" || got.Events[1].ScoreSnapshot.Us != 1 {
		t.Fatalf("event log did not round-trip verbatim: %+v", got.Events[1])
	}
	if got.Meta != want.Meta {
		t.Fatalf("meta mismatch: %+v", got.Meta)
	}
}

func TestSaveIsIdempotentUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	game := sampleGame("g1")

	if err := s.SaveGame(ctx, game); err != nil {
		t.Fatalf("save: %v", err)
	}
	game.Score.Us = 4
	if err := s.SaveGame(ctx, game); err != nil {
		t.Fatalf("resave: %v", err)
	}

	got, err := s.GetGame(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score.Us != 4 {
		t.Fatalf("expected updated score 4, got %d", got.Score.Us)
	}

	games, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("upsert should keep one row, got %d", len(games))
	}
}

func TestGetMissingGame(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetGame(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrdersByDateThenOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	later := sampleGame("g-late")
	later.Meta = domain.GameMeta{Date: "2025-06-02", Order: 1}
	early := sampleGame("g-early")
	early.Meta = domain.GameMeta{Date: "2025-06-01", Order: 1}
	second := sampleGame("g-second")
	second.Meta = domain.GameMeta{Date: "2025-06-01", Order: 2}

	for _, g := range []domain.Game{later, second, early} {
		if err := s.SaveGame(ctx, g); err != nil {
			t.Fatalf("save %s: %v", g.ID, err)
		}
	}

	games, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(games))
	}
	if games[0].ID != "g-early" || games[1].ID != "g-second" || games[2].ID != "g-late" {
		t.Fatalf("unexpected order: %s %s %s", games[0].ID, games[1].ID, games[2].ID)
	}
}

func TestDeleteGame(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveGame(ctx, sampleGame("g1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.DeleteGame(ctx, "g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetGame(ctx, "g1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteGame(ctx, "g1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
}
