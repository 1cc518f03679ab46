package domain

import "errors"

// Expected command/query failures. All of these are returned to the caller;
// none of them should take the ledger down.
var (
	// ErrNotFound means no game exists at the requested key.
	ErrNotFound = errors.New("game not found")
	// ErrAlreadyInitialized means init was called on an existing game.
	ErrAlreadyInitialized = errors.New("game already initialized")
	// ErrAlreadyStarted means start was called outside NOT_STARTED.
	ErrAlreadyStarted = errors.New("game already started")
	// ErrAlreadyFinished means a live command arrived after GAME_END.
	ErrAlreadyFinished = errors.New("game already finished")
	// ErrEmptyLog means a retraction found nothing to retract.
	ErrEmptyLog = errors.New("event log is empty")
	// ErrValidation means the command payload was malformed.
	ErrValidation = errors.New("invalid command")
	// ErrUnavailable means a derived statistic's precondition is unmet,
	// e.g. line stats requested while starting possession is unknown.
	// Distinct from a legitimate zero.
	ErrUnavailable = errors.New("statistic unavailable")
)
