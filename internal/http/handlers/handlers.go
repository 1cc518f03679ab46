package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	nethttp "net/http"
	"strings"

	"match-ledger-service/internal/directory"
	"match-ledger-service/internal/domain"
	"match-ledger-service/internal/ingest"
	"match-ledger-service/internal/ledger"
	"match-ledger-service/internal/possession"
	"match-ledger-service/internal/stats"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires HTTP routes to the ledger and stats services.
type Handler struct {
	svc      *ledger.Service
	engine   *stats.Engine
	gate     *ingest.Gate
	logger   *slog.Logger
	pinger   Pinger
	statusFn func() directory.Status
}

// NewHandler constructs a Handler. pinger and statusFn may be nil when the
// store has no health check or the directory outbox is disabled.
func NewHandler(svc *ledger.Service, engine *stats.Engine, gate *ingest.Gate, logger *slog.Logger, pinger Pinger, statusFn func() directory.Status) *Handler {
	if gate == nil {
		gate = ingest.NewGate(0)
	}
	return &Handler{
		svc:      svc,
		engine:   engine,
		gate:     gate,
		logger:   logger,
		pinger:   pinger,
		statusFn: statusFn,
	}
}

type createGameRequest struct {
	ID         string `json:"id,omitempty"`
	OurTeam    string `json:"ourTeam"`
	TheirTeam  string `json:"theirTeam"`
	Tournament string `json:"tournament,omitempty"`
	Date       string `json:"date,omitempty"`
	Order      int    `json:"order,omitempty"`
}

type patchGameRequest struct {
	StartingPossession domain.Possession `json:"startingPossession"`
}

type eventResponse struct {
	Game  domain.Game      `json:"game"`
	Event domain.GameEvent `json:"event"`
}

func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic: the store answers pings and the
// directory outbox is not wedged.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			writeError(w, r, nethttp.StatusServiceUnavailable, "store unreachable", h.logger)
			return
		}
	}
	if h.statusFn != nil {
		if status := h.statusFn(); !status.IsReady() {
			msg := status.LastError
			if msg == "" {
				msg = "directory outbox not ready"
			}
			writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
			return
		}
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// CreateGame initializes a new game record.
func (h *Handler) CreateGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	game, err := h.svc.Init(r.Context(), ledger.InitParams{
		GameID:    req.ID,
		OurTeam:   req.OurTeam,
		TheirTeam: req.TheirTeam,
		Meta: domain.GameMeta{
			Tournament: req.Tournament,
			Date:       req.Date,
			Order:      req.Order,
		},
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusCreated, game, h.logger)
}

// StartGame moves a game out of NOT_STARTED and records the opening event.
func (h *Handler) StartGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	game, event, err := h.svc.Start(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, eventResponse{Game: game, Event: event}, h.logger)
}

// AppendEvent records one event against a game. Payloads from the
// classification front end carry a source and a confidence and must clear
// the ingest gate; manual entries skip it.
func (h *Handler) AppendEvent(w nethttp.ResponseWriter, r *nethttp.Request) {
	var cand ingest.Candidate
	if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	params := cand.Params()
	if cand.Source != "" {
		var err error
		params, err = h.gate.Admit(cand)
		if err != nil {
			if logger := loggerFromContext(r, h.logger); logger != nil {
				logger.Info("candidate rejected", "source", cand.Source, "confidence", cand.Confidence)
			}
			writeError(w, r, nethttp.StatusUnprocessableEntity, err.Error(), h.logger)
			return
		}
	}

	game, event, err := h.svc.AppendEvent(r.Context(), r.PathValue("id"), params)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusCreated, eventResponse{Game: game, Event: event}, h.logger)
}

// RetractLast removes the most recent event and returns the rolled-back view.
func (h *Handler) RetractLast(w nethttp.ResponseWriter, r *nethttp.Request) {
	game, event, err := h.svc.RetractLast(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, eventResponse{Game: game, Event: event}, h.logger)
}

// PatchGame updates the starting possession without touching the event log.
func (h *Handler) PatchGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req patchGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	game, err := h.svc.PatchField(r.Context(), r.PathValue("id"), req.StartingPossession)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, game, h.logger)
}

// GameByID returns a game snapshot.
func (h *Handler) GameByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	game, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, game, h.logger)
}

// ListGames returns every stored game.
func (h *Handler) ListGames(w nethttp.ResponseWriter, r *nethttp.Request) {
	games, err := h.svc.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, domain.ListResponse{Count: len(games), Games: games}, h.logger)
}

// LineStats returns the offense/defense line split for one game. Games with
// an unknown starting possession answer 409 so callers can tell "no data"
// apart from a game full of zeros.
func (h *Handler) LineStats(w nethttp.ResponseWriter, r *nethttp.Request) {
	game, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	lines, err := possession.Classify(game.StartingPossession, game.Goals())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, lines, h.logger)
}

// GameStats returns the per-game analytics bundle.
func (h *Handler) GameStats(w nethttp.ResponseWriter, r *nethttp.Request) {
	game, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, h.engine.GameStats(game), h.logger)
}

// AggregateStats reports across games: the ids query parameter selects
// specific games, otherwise every finished game counts.
func (h *Handler) AggregateStats(w nethttp.ResponseWriter, r *nethttp.Request) {
	games, err := h.selectGames(r)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, h.engine.Aggregate(games), h.logger)
}

func (h *Handler) selectGames(r *nethttp.Request) ([]domain.Game, error) {
	idsParam := strings.TrimSpace(r.URL.Query().Get("ids"))
	if idsParam != "" {
		var games []domain.Game
		for _, id := range strings.Split(idsParam, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			game, err := h.svc.Get(r.Context(), id)
			if err != nil {
				return nil, err
			}
			games = append(games, game)
		}
		return games, nil
	}

	all, err := h.svc.List(r.Context())
	if err != nil {
		return nil, err
	}
	finished := make([]domain.Game, 0, len(all))
	for _, game := range all {
		if game.Status == domain.StatusFinished {
			finished = append(finished, game)
		}
	}
	return finished, nil
}

func (h *Handler) writeDomainError(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	status := nethttp.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, message = nethttp.StatusNotFound, "game not found"
	case errors.Is(err, domain.ErrValidation):
		status, message = nethttp.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrAlreadyInitialized),
		errors.Is(err, domain.ErrAlreadyStarted),
		errors.Is(err, domain.ErrAlreadyFinished),
		errors.Is(err, domain.ErrEmptyLog),
		errors.Is(err, domain.ErrUnavailable):
		status, message = nethttp.StatusConflict, err.Error()
	default:
		if logger := loggerFromContext(r, h.logger); logger != nil {
			logger.Error("request failed", "err", err)
		}
	}

	writeError(w, r, status, message, h.logger)
}
