package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"skyrng/internal/log"
	"skyrng/internal/meter"
)

// Gateway is the debounced write-through of aggregate snapshots to local
// SQLite storage. The stored payload is a single JSON object mirroring
// PlayerRngData; the settings table holds small key/value items such as the
// link credential.
type Gateway struct {
	db   *sql.DB
	path string

	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *meter.PlayerRngData // latest snapshot awaiting flush, nil when idle
	closed  bool
}

// Open opens (or creates) the local database at path. debounce is the quiet
// period coalescing bursts of snapshot notifications into one write.
func Open(path string, debounce time.Duration) (*Gateway, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	g := &Gateway{db: db, path: path, debounce: debounce}
	if err = g.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return g, nil
}

func (g *Gateway) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rng_data (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`
	_, err := g.db.Exec(schema)
	return err
}

// Hydrate loads the persisted aggregate. Loading is tolerant: a missing row
// or malformed payload yields an empty aggregate and a log line, never an
// error that would block startup.
func (g *Gateway) Hydrate() meter.PlayerRngData {
	var payload string
	err := g.db.QueryRow(`SELECT payload FROM rng_data WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return meter.PlayerRngData{}
	}
	if err != nil {
		log.Warn("Persist: could not read saved data, starting empty", "error", err)
		return meter.PlayerRngData{}
	}

	var data meter.PlayerRngData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		log.Warn("Persist: saved data is malformed, starting empty", "error", err)
		return meter.PlayerRngData{}
	}
	return data
}

// Notify records snapshot as the pending flush candidate and re-arms the
// debounce timer. Only the latest snapshot is retained; earlier pending
// snapshots are overwritten, never queued.
func (g *Gateway) Notify(snapshot meter.PlayerRngData) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}

	g.pending = &snapshot
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.debounce, g.flushPending)
}

// flushPending writes the pending snapshot, if any. A write failure is
// logged and dropped; the next store mutation arms a fresh attempt.
func (g *Gateway) flushPending() {
	g.mu.Lock()
	pending := g.pending
	g.pending = nil
	g.timer = nil
	g.mu.Unlock()

	if pending == nil {
		return
	}
	if err := g.write(*pending); err != nil {
		log.Warn("Persist: write failed, will retry on next change", "error", err)
	}
}

// FlushNow cancels any pending debounce timer and writes the pending
// snapshot immediately. A no-op when nothing is pending.
func (g *Gateway) FlushNow() error {
	g.mu.Lock()
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	pending := g.pending
	g.pending = nil
	g.mu.Unlock()

	if pending == nil {
		return nil
	}
	return g.write(*pending)
}

func (g *Gateway) write(data meter.PlayerRngData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = g.db.Exec(
		`INSERT OR REPLACE INTO rng_data (id, payload, updated_at) VALUES (1, ?, ?)`,
		string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSetting reads one settings value; ok is false when the key is absent
func (g *Gateway) GetSetting(key string) (value string, ok bool, err error) {
	err = g.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores one settings value
func (g *Gateway) SetSetting(key, value string) error {
	_, err := g.db.Exec(
		`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes one settings value
func (g *Gateway) DeleteSetting(key string) error {
	_, err := g.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// Close performs a final flush and closes the database
func (g *Gateway) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	pending := g.pending
	g.pending = nil
	g.mu.Unlock()

	if pending != nil {
		if err := g.write(*pending); err != nil {
			log.Warn("Persist: final flush failed", "error", err)
		}
	}

	if err := g.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
