// Package cache provides the local snapshot tier: a small SQLite file that
// lets a new session paint the last-known drafts before the authoritative
// remote fetch completes. It is never treated as authoritative.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // cgo-free sqlite driver

	"github.com/jonathan/draft-assistant/internal/draftstore"
)

// Cache stores one snapshot row per user.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the snapshot database at the given path. Use
// ":memory:" for an ephemeral cache.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot cache: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		user_id  TEXT PRIMARY KEY,
		snapshot TEXT NOT NULL,
		saved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize snapshot cache: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Load returns the user's last snapshot, or nil when none is cached.
func (c *Cache) Load(userID uuid.UUID) (*draftstore.Snapshot, error) {
	var raw string
	err := c.db.QueryRow(
		`SELECT snapshot FROM snapshots WHERE user_id = ?`,
		userID.String(),
	).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snapshot draftstore.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save overwrites the user's snapshot.
func (c *Cache) Save(userID uuid.UUID, snapshot draftstore.Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT INTO snapshots (user_id, snapshot, saved_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(user_id) DO UPDATE SET snapshot = excluded.snapshot, saved_at = CURRENT_TIMESTAMP`,
		userID.String(), string(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Clear drops the user's snapshot. Clearing an absent snapshot is a no-op.
func (c *Cache) Clear(userID uuid.UUID) error {
	_, err := c.db.Exec(`DELETE FROM snapshots WHERE user_id = ?`, userID.String())
	if err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
