package types

import "time"

// HistoryEntry is an immutable snapshot of a draft plus a label naming the
// action that produced it. History is in-memory only and never persisted.
type HistoryEntry struct {
	Label     string    `json:"label"`
	Snapshot  Draft     `json:"snapshot"`
	CreatedAt time.Time `json:"created_at"`
}
