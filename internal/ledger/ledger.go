// Package ledger owns the per-game command path. Each game is a
// single-writer actor keyed by its game ID: commands for one game run one
// at a time, mutate the in-memory view, then persist the full snapshot.
// A crash between mutation and persist loses at most that one command.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"match-ledger-service/internal/domain"
	"match-ledger-service/internal/eventlog"
	"match-ledger-service/internal/logging"
	"match-ledger-service/internal/metrics"
	"match-ledger-service/internal/store"
)

// Outbox receives the write-behind copy for the external game directory
// after a command persists. Best effort: a failed or deferred copy never
// fails the command.
type Outbox interface {
	Enqueue(game domain.Game)
}

// Service routes commands to per-game actors.
type Service struct {
	store   store.Store
	outbox  Outbox
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
	newID   func() string

	mu     sync.Mutex
	actors map[string]*actor
}

// actor serializes all commands for one game. The mutex is the whole
// concurrency discipline: no command for a key runs while another holds it.
type actor struct {
	mu     sync.Mutex
	game   domain.Game
	log    *eventlog.Log
	loaded bool
}

// NewService constructs the ledger over a snapshot store. outbox may be nil.
func NewService(st store.Store, outbox Outbox, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	return &Service{
		store:   st,
		outbox:  outbox,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
		actors:  make(map[string]*actor),
	}
}

// InitParams configures a new game.
type InitParams struct {
	GameID    string
	OurTeam   string
	TheirTeam string
	Meta      domain.GameMeta
}

// AppendParams carries one appendEvent command. A non-nil Timestamp marks a
// backfilled event: it is inserted into the log at its historical position
// and suppresses every status/clock side effect.
type AppendParams struct {
	Type               domain.EventType
	Team               domain.TeamSide
	Message            string
	DefensivePlay      domain.DefensivePlay
	StartingPossession domain.Possession
	Timestamp          *time.Time
	ScoreOverride      *domain.Score
	Source             string
}

// Init creates a game in NOT_STARTED. Re-init of an existing key is
// rejected, not merged.
func (s *Service) Init(ctx context.Context, p InitParams) (domain.Game, error) {
	start := s.now()
	if p.OurTeam == "" || p.TheirTeam == "" {
		return domain.Game{}, fmt.Errorf("%w: both team names are required", domain.ErrValidation)
	}

	id := p.GameID
	if id == "" {
		id = s.newID()
	}

	a := s.actorFor(id)
	a.mu.Lock()
	defer a.mu.Unlock()

	switch err := s.load(ctx, id, a); {
	case err == nil:
		return domain.Game{}, domain.ErrAlreadyInitialized
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Game{}, err
	}

	a.game = domain.Game{
		ID:     id,
		Teams:  domain.Teams{Us: domain.Team{Name: p.OurTeam}, Them: domain.Team{Name: p.TheirTeam}},
		Status: domain.StatusNotStarted,
		Meta:   p.Meta,
	}
	a.log = eventlog.New(nil)
	a.loaded = true

	err := s.finishCommand(ctx, "init", a, start)
	return a.game, err
}

// Start moves NOT_STARTED to FIRST_HALF, stamps startedAt, and appends the
// GAME_START event.
func (s *Service) Start(ctx context.Context, gameID string) (domain.Game, domain.GameEvent, error) {
	start := s.now()
	a := s.actorFor(gameID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := s.load(ctx, gameID, a); err != nil {
		return domain.Game{}, domain.GameEvent{}, err
	}
	if a.game.Status != domain.StatusNotStarted {
		return domain.Game{}, domain.GameEvent{}, domain.ErrAlreadyStarted
	}

	now := s.now()
	a.game.Status = domain.StatusFirstHalf
	a.game.StartedAt = &now

	ev := domain.GameEvent{
		ID:            s.newID(),
		GameID:        gameID,
		Type:          domain.EventGameStart,
		Timestamp:     now,
		ScoreSnapshot: a.game.Score,
	}
	a.game.Events = a.log.Append(ev)

	err := s.finishCommand(ctx, "start", a, start)
	return a.game, ev, err
}

// AppendEvent records one event and recomputes the derived view.
func (s *Service) AppendEvent(ctx context.Context, gameID string, p AppendParams) (domain.Game, domain.GameEvent, error) {
	start := s.now()
	if err := validateAppend(p); err != nil {
		return domain.Game{}, domain.GameEvent{}, err
	}

	a := s.actorFor(gameID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := s.load(ctx, gameID, a); err != nil {
		return domain.Game{}, domain.GameEvent{}, err
	}

	backfill := p.Timestamp != nil
	if !backfill && a.game.Status == domain.StatusFinished {
		return domain.Game{}, domain.GameEvent{}, domain.ErrAlreadyFinished
	}

	ts := s.now()
	if backfill {
		ts = *p.Timestamp
	}

	ev := domain.GameEvent{
		ID:               s.newID(),
		GameID:           gameID,
		Type:             p.Type,
		Timestamp:        ts,
		Team:             p.Team,
		Message:          p.Message,
		DefensivePlay:    p.DefensivePlay,
		AttributedSource: p.Source,
		Backfilled:       backfill,
	}

	if p.Type == domain.EventGoal {
		if p.ScoreOverride != nil {
			ev.ScoreOverridden = true
			ev.ScoreSnapshot = *p.ScoreOverride
			if expected := expectedNext(a.game.Score, p.Team); *p.ScoreOverride != expected {
				// Trusted unconditionally; logged so historical imports
				// with gaps stay visible.
				logging.Warn(s.logger, "score override does not follow running score",
					"game_id", gameID, "override_us", p.ScoreOverride.Us, "override_them", p.ScoreOverride.Them)
			}
		} else {
			next := expectedNext(a.game.Score, p.Team)
			ev.ScoreSnapshot = next
		}
	} else {
		ev.ScoreSnapshot = a.game.Score
	}

	a.game.Events = a.log.Append(ev)
	a.game.Score = recomputeScore(a.game.Events)

	// Possession updates apply on both paths; last write wins when a log
	// carries multiple GAME_START events.
	if p.Type == domain.EventGameStart && domain.ValidPossession(p.StartingPossession) {
		a.game.StartingPossession = p.StartingPossession
	}

	if !backfill {
		s.applyStatus(a, p.Type, ts)
	}

	err := s.finishCommand(ctx, "append_event", a, start)
	return a.game, ev, err
}

// RetractLast pops the newest event and rebuilds every derived field from
// the remaining log.
func (s *Service) RetractLast(ctx context.Context, gameID string) (domain.Game, domain.GameEvent, error) {
	start := s.now()
	a := s.actorFor(gameID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := s.load(ctx, gameID, a); err != nil {
		return domain.Game{}, domain.GameEvent{}, err
	}

	retracted, err := a.log.RemoveLast()
	if err != nil {
		return domain.Game{}, domain.GameEvent{}, err
	}

	a.game.Events = a.log.Replay()
	a.game.Score = recomputeScore(a.game.Events)
	s.recomputeStatus(a)

	err = s.finishCommand(ctx, "retract_last", a, start)
	return a.game, retracted, err
}

// PatchField is the out-of-band correction path: it bypasses the event log
// entirely. Currently only starting possession is patchable.
func (s *Service) PatchField(ctx context.Context, gameID string, possession domain.Possession) (domain.Game, error) {
	start := s.now()
	if !domain.ValidPossession(possession) {
		return domain.Game{}, fmt.Errorf("%w: startingPossession must be offense or defense", domain.ErrValidation)
	}

	a := s.actorFor(gameID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := s.load(ctx, gameID, a); err != nil {
		return domain.Game{}, err
	}

	a.game.StartingPossession = possession

	err := s.finishCommand(ctx, "patch_field", a, start)
	return a.game, err
}

// Get returns the current snapshot for one game.
func (s *Service) Get(ctx context.Context, gameID string) (domain.Game, error) {
	a := s.actorFor(gameID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := s.load(ctx, gameID, a); err != nil {
		return domain.Game{}, err
	}
	return a.game, nil
}

// List returns every stored game.
func (s *Service) List(ctx context.Context) ([]domain.Game, error) {
	return s.store.ListGames(ctx)
}

func (s *Service) actorFor(gameID string) *actor {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.actors[gameID]
	if !ok {
		a = &actor{}
		s.actors[gameID] = a
	}
	return a
}

// load hydrates the actor from the store on first touch. Must hold a.mu.
func (s *Service) load(ctx context.Context, gameID string, a *actor) error {
	if a.loaded {
		return nil
	}
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	a.game = game
	a.log = eventlog.New(game.Events)
	a.game.Events = a.log.Replay()
	a.loaded = true
	return nil
}

// finishCommand persists the snapshot and hands the copy to the outbox.
// A persist failure is surfaced to the caller; the in-memory state is
// already correct and the same command result re-persists idempotently.
func (s *Service) finishCommand(ctx context.Context, command string, a *actor, start time.Time) error {
	err := s.store.SaveGame(ctx, a.game)
	s.metrics.RecordCommand(command, s.now().Sub(start), err)
	if err != nil {
		logging.Error(s.logger, "snapshot persist failed", err,
			"command", command, "game_id", a.game.ID)
		return fmt.Errorf("persist game %s: %w", a.game.ID, err)
	}
	if s.outbox != nil {
		s.outbox.Enqueue(a.game)
	}
	return nil
}

func (s *Service) applyStatus(a *actor, t domain.EventType, now time.Time) {
	switch t {
	case domain.EventGameStart:
		a.game.Status = domain.StatusFirstHalf
		if a.game.StartedAt == nil {
			a.game.StartedAt = &now
		}
	case domain.EventHalftime:
		a.game.Status = domain.StatusHalftime
	case domain.EventSecondHalfStart:
		a.game.Status = domain.StatusSecondHalf
	case domain.EventGameEnd:
		a.game.Status = domain.StatusFinished
		a.game.FinishedAt = &now
	}
}

// recomputeStatus derives status from the newest status-bearing live event
// after a retraction. Backfilled events never drove status forward, so
// they do not drive it backward either.
func (s *Service) recomputeStatus(a *actor) {
	if a.log.Len() == 0 {
		a.game.Status = domain.StatusNotStarted
		a.game.StartedAt = nil
		a.game.FinishedAt = nil
		return
	}

	events := a.game.Events
	status := domain.StatusNotStarted
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Backfilled {
			continue
		}
		switch events[i].Type {
		case domain.EventGameEnd:
			status = domain.StatusFinished
		case domain.EventSecondHalfStart:
			status = domain.StatusSecondHalf
		case domain.EventHalftime:
			status = domain.StatusHalftime
		case domain.EventGameStart:
			status = domain.StatusFirstHalf
		default:
			continue
		}
		break
	}

	a.game.Status = status
	if status != domain.StatusFinished {
		a.game.FinishedAt = nil
	}
	if status == domain.StatusNotStarted {
		a.game.StartedAt = nil
	}
}

// recomputeScore folds the ordered log. Live goals count one each; an
// overridden snapshot resets the running score to whatever it asserts.
func recomputeScore(events []domain.GameEvent) domain.Score {
	var running domain.Score
	for _, ev := range events {
		if ev.Type != domain.EventGoal {
			continue
		}
		if ev.ScoreOverridden {
			running = ev.ScoreSnapshot
			continue
		}
		running = expectedNext(running, ev.Team)
	}
	return running
}

func expectedNext(score domain.Score, side domain.TeamSide) domain.Score {
	if side == domain.SideUs {
		score.Us++
	} else {
		score.Them++
	}
	return score
}

func validateAppend(p AppendParams) error {
	if !domain.ValidEventType(p.Type) {
		return fmt.Errorf("%w: unknown event type %q", domain.ErrValidation, p.Type)
	}
	if p.Type == domain.EventGoal && !domain.ValidTeamSide(p.Team) {
		return fmt.Errorf("%w: goal requires a team", domain.ErrValidation)
	}
	if p.Team != "" && !domain.ValidTeamSide(p.Team) {
		return fmt.Errorf("%w: unknown team %q", domain.ErrValidation, p.Team)
	}
	if p.DefensivePlay != "" {
		if p.Type != domain.EventGoal {
			return fmt.Errorf("%w: defensive play is only meaningful on a goal", domain.ErrValidation)
		}
		if !domain.ValidDefensivePlay(p.DefensivePlay) {
			return fmt.Errorf("%w: unknown defensive play %q", domain.ErrValidation, p.DefensivePlay)
		}
	}
	if p.StartingPossession != domain.PossessionUnknown && !domain.ValidPossession(p.StartingPossession) {
		return fmt.Errorf("%w: unknown possession %q", domain.ErrValidation, p.StartingPossession)
	}
	if p.ScoreOverride != nil && p.Type != domain.EventGoal {
		return fmt.Errorf("%w: score override only applies to goals", domain.ErrValidation)
	}
	return nil
}
