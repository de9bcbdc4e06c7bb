package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"skyrng/internal/backend"
	"skyrng/internal/log"
	"skyrng/internal/meter"
)

// ErrNotLinked is returned by SyncNow when no account credential exists.
// This is a local precondition failure; no network request is made.
var ErrNotLinked = errors.New("account not linked")

// API is the remote backend boundary the engine pushes snapshots through
type API interface {
	Sync(ctx context.Context, data meter.PlayerRngData, token string) backend.SyncResult
}

// TokenSource supplies the bearer credential gating synchronization
// (satisfied by linkstate.Manager)
type TokenSource interface {
	Token() (token string, ok bool)
}

// Config carries the engine's timing policy. Zero values take the defaults.
type Config struct {
	Debounce       time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxAttempts    int
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = 15 * time.Second
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 5 * time.Second
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 5 * time.Minute
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 10
	}
	return c
}

// Status is a point-in-time view of the engine for the status command
type Status struct {
	Linked     bool
	LastSyncAt time.Time
	LastError  string
	Attempts   int
	RetryArmed bool
}

// Engine pushes aggregate snapshots to the backend: debounced on store
// changes, immediate on SyncNow, retried with exponential backoff on
// failure. One pending timer exists at a time; scheduling always cancels
// the previous handle first, and only the latest snapshot is retained.
type Engine struct {
	api    API
	tokens TokenSource
	cfg    Config

	mu         sync.Mutex
	timer      *time.Timer
	pending    *meter.PlayerRngData
	attempts   int // consecutive failures since the last success
	lastSyncAt time.Time
	lastErr    string
	closed     bool
}

// New creates a sync engine over the given backend and credential source
func New(api API, tokens TokenSource, cfg Config) *Engine {
	return &Engine{api: api, tokens: tokens, cfg: cfg.withDefaults()}
}

// Notify records snapshot as the pending push and re-arms the debounce
// timer. Bursts of changes coalesce into a single push of the last
// snapshot.
func (e *Engine) Notify(snapshot meter.PlayerRngData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	e.pending = &snapshot
	e.schedule(e.cfg.Debounce)
}

// schedule re-arms the single pending timer. Caller holds e.mu.
func (e *Engine) schedule(delay time.Duration) {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(delay, e.flush)
}

// flush runs on the timer goroutine: it takes the pending snapshot, pushes
// it, and on failure re-arms the timer with the next backoff delay.
func (e *Engine) flush() {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.timer = nil
	closed := e.closed
	e.mu.Unlock()

	if pending == nil || closed {
		return
	}

	token, ok := e.tokens.Token()
	if !ok {
		// Background path stays silent when unlinked; the snapshot will be
		// re-offered by the next store change
		log.Debug("Sync: skipped, account not linked")
		return
	}

	result := e.api.Sync(context.Background(), *pending, token)

	e.mu.Lock()
	defer e.mu.Unlock()

	if result.Ok {
		e.recordSuccess()
		return
	}

	e.lastErr = result.Err
	e.attempts++
	log.Warn("Sync: push failed", "error", result.Err, "attempt", e.attempts)

	if e.attempts >= e.cfg.MaxAttempts {
		log.Warn("Sync: giving up after repeated failures", "attempts", e.attempts)
		return
	}

	// A store change during the push has already re-armed the timer with a
	// newer snapshot; keep that one instead of the stale retry
	if e.pending == nil && e.timer == nil && !e.closed {
		e.pending = pending
		e.timer = time.AfterFunc(backoffDelay(e.attempts, e.cfg.InitialBackoff, e.cfg.MaxBackoff), e.flush)
	}
}

// SyncNow cancels any pending timer and pushes snapshot immediately,
// returning the outcome to the caller. Fails fast with ErrNotLinked before
// any network attempt when no credential exists.
func (e *Engine) SyncNow(ctx context.Context, snapshot meter.PlayerRngData) error {
	e.mu.Lock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.pending = nil
	e.mu.Unlock()

	token, ok := e.tokens.Token()
	if !ok {
		return ErrNotLinked
	}

	result := e.api.Sync(ctx, snapshot, token)

	e.mu.Lock()
	defer e.mu.Unlock()

	if result.Ok {
		e.recordSuccess()
		return nil
	}

	e.lastErr = result.Err
	e.attempts++
	if result.StatusCode != 0 {
		return fmt.Errorf("sync failed: %s (status %d)", result.Err, result.StatusCode)
	}
	return fmt.Errorf("sync failed: %s", result.Err)
}

// recordSuccess resets the retry state. Caller holds e.mu.
func (e *Engine) recordSuccess() {
	e.attempts = 0
	e.lastErr = ""
	e.lastSyncAt = time.Now()
}

// Status reports the engine state for the status command
func (e *Engine) Status() Status {
	_, linked := e.tokens.Token()

	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Linked:     linked,
		LastSyncAt: e.lastSyncAt,
		LastError:  e.lastErr,
		Attempts:   e.attempts,
		RetryArmed: e.timer != nil,
	}
}

// Close cancels any pending timer; no further pushes occur
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.pending = nil
}

// backoffDelay is the delay before retry number attempt (1-based): the
// initial delay doubled per consecutive failure, capped at max.
func backoffDelay(attempt int, initial, max time.Duration) time.Duration {
	delay := initial
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}
