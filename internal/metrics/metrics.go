package metrics

import (
	"sync"
	"time"
)

type commandStats struct {
	calls       int
	errors      int
	lastLatency time.Duration
}

type outboxStats struct {
	flushes int
	errors  int
	pending int
}

// Recorder captures lightweight, in-memory metrics about ledger commands,
// HTTP traffic, and the directory outbox. It is intentionally simple so
// tests can assert on it directly; otel instruments mirror every update.
type Recorder struct {
	mu       sync.Mutex
	commands map[string]*commandStats
	outbox   outboxStats
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		commands: make(map[string]*commandStats),
		otel:     otel,
	}
}

// RecordCommand increments counters for one ledger command and stores the
// last observed latency.
func (r *Recorder) RecordCommand(command string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureCommand(command)
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCommand(command, duration, err)
	}
}

// RecordHTTPRequest tracks one served request.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	if r.otel != nil {
		r.otel.recordHTTPRequest(method, path, status, duration)
	}
}

// RecordOutboxFlush tracks one directory write-behind attempt.
func (r *Recorder) RecordOutboxFlush(err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.outbox.flushes++
	if err != nil {
		r.outbox.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordOutboxFlush(err)
	}
}

// RecordOutboxPending reports the current outbox queue depth.
func (r *Recorder) RecordOutboxPending(pending int) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.outbox.pending = pending
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordOutboxPending(pending)
	}
}

// CommandCalls returns the total invocations recorded for a command.
func (r *Recorder) CommandCalls(command string) int {
	return r.Snapshot(command).Calls
}

// CommandErrors returns the total failed invocations for a command.
func (r *Recorder) CommandErrors(command string) int {
	return r.Snapshot(command).Errors
}

// LastCommandLatency returns the last recorded latency for a command.
func (r *Recorder) LastCommandLatency(command string) time.Duration {
	return r.Snapshot(command).LastLatency
}

// OutboxFlushes returns the total flush attempts recorded.
func (r *Recorder) OutboxFlushes() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outbox.flushes
}

// OutboxErrors returns the total failed flush attempts recorded.
func (r *Recorder) OutboxErrors() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outbox.errors
}

// OutboxPending returns the queue depth last reported.
func (r *Recorder) OutboxPending() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outbox.pending
}

// Snapshot is a copy of one command's stats.
type Snapshot struct {
	Calls       int
	Errors      int
	LastLatency time.Duration
}

// Snapshot returns a copy of the current stats for the command.
func (r *Recorder) Snapshot(command string) Snapshot {
	if r == nil {
		return Snapshot{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.commands[command]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{
		Calls:       stats.calls,
		Errors:      stats.errors,
		LastLatency: stats.lastLatency,
	}
}

// ensureCommand must be called with r.mu held.
func (r *Recorder) ensureCommand(command string) *commandStats {
	stats, ok := r.commands[command]
	if !ok {
		stats = &commandStats{}
		r.commands[command] = stats
	}
	return stats
}
