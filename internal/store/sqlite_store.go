package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"match-ledger-service/internal/domain"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id                  TEXT PRIMARY KEY,
	our_team            TEXT NOT NULL,
	their_team          TEXT NOT NULL,
	score_us            INTEGER NOT NULL DEFAULT 0,
	score_them          INTEGER NOT NULL DEFAULT 0,
	status              TEXT NOT NULL,
	starting_possession TEXT NOT NULL DEFAULT '',
	started_at          TEXT,
	finished_at         TEXT,
	tournament          TEXT NOT NULL DEFAULT '',
	game_date           TEXT NOT NULL DEFAULT '',
	game_order          INTEGER NOT NULL DEFAULT 0,
	events              TEXT NOT NULL DEFAULT '[]',
	updated_at          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_date ON games(game_date);
CREATE INDEX IF NOT EXISTS idx_games_tournament ON games(tournament);
CREATE INDEX IF NOT EXISTS idx_games_status ON games(status);
`

// SQLiteStore persists game snapshots in a single SQLite database. The
// event log round-trips verbatim through a JSON column; score/status and
// the directory's filter keys are denormalized into indexed columns.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the games database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// The ledger serializes writes per game; a single connection keeps
	// SQLite's own locking out of the picture entirely.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init games schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable; used by the readiness probe.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveGame upserts the full snapshot for one game. Safe to retry: the row
// is keyed by game ID and written whole.
func (s *SQLiteStore) SaveGame(ctx context.Context, game domain.Game) error {
	events, err := json.Marshal(game.Events)
	if err != nil {
		return fmt.Errorf("encode event log: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO games (
	id, our_team, their_team, score_us, score_them, status,
	starting_possession, started_at, finished_at,
	tournament, game_date, game_order, events, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	our_team = excluded.our_team,
	their_team = excluded.their_team,
	score_us = excluded.score_us,
	score_them = excluded.score_them,
	status = excluded.status,
	starting_possession = excluded.starting_possession,
	started_at = excluded.started_at,
	finished_at = excluded.finished_at,
	tournament = excluded.tournament,
	game_date = excluded.game_date,
	game_order = excluded.game_order,
	events = excluded.events,
	updated_at = excluded.updated_at`,
		game.ID, game.Teams.Us.Name, game.Teams.Them.Name,
		game.Score.Us, game.Score.Them, string(game.Status),
		string(game.StartingPossession), encodeTime(game.StartedAt), encodeTime(game.FinishedAt),
		game.Meta.Tournament, game.Meta.Date, game.Meta.Order,
		string(events), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", game.ID, err)
	}
	return nil
}

// GetGame loads one snapshot by ID.
func (s *SQLiteStore) GetGame(ctx context.Context, id string) (domain.Game, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, our_team, their_team, score_us, score_them, status,
	starting_possession, started_at, finished_at,
	tournament, game_date, game_order, events
FROM games WHERE id = ?`, id)

	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Game{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("load game %s: %w", id, err)
	}
	return game, nil
}

// ListGames returns every stored snapshot ordered by date then order.
func (s *SQLiteStore) ListGames(ctx context.Context) ([]domain.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, our_team, their_team, score_us, score_them, status,
	starting_possession, started_at, finished_at,
	tournament, game_date, game_order, events
FROM games ORDER BY game_date, game_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// DeleteGame removes a snapshot.
func (s *SQLiteStore) DeleteGame(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (domain.Game, error) {
	var (
		game               domain.Game
		status, possession string
		startedAt          sql.NullString
		finishedAt         sql.NullString
		events             string
	)
	err := row.Scan(
		&game.ID, &game.Teams.Us.Name, &game.Teams.Them.Name,
		&game.Score.Us, &game.Score.Them, &status,
		&possession, &startedAt, &finishedAt,
		&game.Meta.Tournament, &game.Meta.Date, &game.Meta.Order,
		&events,
	)
	if err != nil {
		return domain.Game{}, err
	}

	game.Status = domain.GameStatus(status)
	game.StartingPossession = domain.Possession(possession)
	game.StartedAt = decodeTime(startedAt)
	game.FinishedAt = decodeTime(finishedAt)
	if err := json.Unmarshal([]byte(events), &game.Events); err != nil {
		return domain.Game{}, fmt.Errorf("decode event log: %w", err)
	}
	return game, nil
}

func encodeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil
	}
	return &t
}
