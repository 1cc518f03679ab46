package directory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"match-ledger-service/internal/domain"
	"match-ledger-service/internal/logging"
	"match-ledger-service/internal/metrics"
)

const defaultInterval = 5 * time.Second

// Outbox buffers directory writes and drains them on an interval. Only
// the newest snapshot per game is kept: an older copy is never worth
// writing once a newer one exists. Failed writes stay queued, so the
// staleness window is bounded by the retry interval, not lost.
type Outbox struct {
	writer   Writer
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	mu      sync.Mutex
	pending map[string]domain.Game

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the drain loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	Pending             int
}

// IsReady reports whether the outbox is keeping up with writes.
func (s Status) IsReady() bool {
	return s.ConsecutiveFailures < 3
}

// NewOutbox constructs an Outbox with sane defaults.
func NewOutbox(writer Writer, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Outbox {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Outbox{
		writer:   writer,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		pending:  make(map[string]domain.Game),
		done:     make(chan struct{}),
	}
}

// Enqueue records the latest snapshot for a game. Never blocks and never
// fails: the drain loop owns delivery.
func (o *Outbox) Enqueue(game domain.Game) {
	o.mu.Lock()
	o.pending[game.ID] = game
	depth := len(o.pending)
	o.mu.Unlock()

	o.metrics.RecordOutboxPending(depth)
}

// Start begins draining until the context is cancelled or Stop is called.
func (o *Outbox) Start(ctx context.Context) {
	o.startMu.Lock()
	if o.started {
		o.startMu.Unlock()
		return
	}
	o.started = true
	o.ticker = time.NewTicker(o.interval)
	o.startMu.Unlock()

	go func() {
		defer o.ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-o.done:
				return
			case <-o.ticker.C:
				o.Flush(ctx)
			}
		}
	}()
}

// Stop halts the drain loop. A final Flush with a fresh context lets
// shutdown push out whatever is still queued.
func (o *Outbox) Stop(ctx context.Context) error {
	o.stopOnce.Do(func() {
		close(o.done)
	})
	o.Flush(ctx)
	return nil
}

// Flush attempts every queued write once. Games that fail stay queued
// unless a newer snapshot already replaced them.
func (o *Outbox) Flush(ctx context.Context) {
	o.mu.Lock()
	if len(o.pending) == 0 {
		o.mu.Unlock()
		return
	}
	batch := o.pending
	o.pending = make(map[string]domain.Game)
	o.mu.Unlock()

	var lastErr error
	for id, game := range batch {
		err := o.writer.WriteGame(ctx, game)
		o.metrics.RecordOutboxFlush(err)
		if err == nil {
			continue
		}
		lastErr = err
		logging.Warn(o.logger, "directory write failed, keeping queued",
			logging.FieldGameID, id, "error", err)

		o.mu.Lock()
		if _, replaced := o.pending[id]; !replaced {
			o.pending[id] = game
		}
		o.mu.Unlock()
	}

	o.mu.Lock()
	depth := len(o.pending)
	o.mu.Unlock()
	o.metrics.RecordOutboxPending(depth)

	o.recordAttempt(lastErr, depth)
}

// CurrentStatus returns a copy of the drain loop's health.
func (o *Outbox) CurrentStatus() Status {
	o.statusMu.RLock()
	defer o.statusMu.RUnlock()
	return o.status
}

func (o *Outbox) recordAttempt(err error, pending int) {
	o.statusMu.Lock()
	defer o.statusMu.Unlock()

	now := time.Now()
	o.status.LastAttempt = now
	o.status.Pending = pending
	if err != nil {
		o.status.ConsecutiveFailures++
		o.status.LastError = err.Error()
		return
	}
	o.status.ConsecutiveFailures = 0
	o.status.LastError = ""
	o.status.LastSuccess = now
}
