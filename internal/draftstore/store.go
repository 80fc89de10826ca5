// Package draftstore holds the in-memory source of truth for a user's
// drafts: the active draft, its bounded undo/redo history and the section
// lifecycle states, reconciled against a remote persistence service with a
// best-effort local cache underneath.
package draftstore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/draft-assistant/internal/types"
)

// MaxHistoryEntries bounds the undo/redo history per active-draft session.
const MaxHistoryEntries = 10

// DraftPatch is a partial remote update. Nil fields are left untouched.
type DraftPatch struct {
	Name       *string             `json:"name,omitempty"`
	TemplateID *string             `json:"template_id,omitempty"`
	Job        *types.JobLink      `json:"job,omitempty"`
	Content    *types.DraftContent `json:"content,omitempty"`
	Sections   []types.Section     `json:"sections,omitempty"`
}

// ErrNotFound reports that an operation targeted a draft the remote store
// does not hold. Implementations wrap it so callers can tell a missing
// draft apart from a transport failure.
var ErrNotFound = errors.New("draft not found")

// Persistence is the remote draft record store. Implementations return the
// authoritative stored representation; a nil draft with a nil error means
// not found. DeleteDraft reports a missing draft by wrapping ErrNotFound.
type Persistence interface {
	ListDrafts(ctx context.Context, userID uuid.UUID) ([]*types.Draft, error)
	GetDraft(ctx context.Context, userID, id uuid.UUID) (*types.Draft, error)
	CreateDraft(ctx context.Context, userID uuid.UUID, draft *types.Draft) (*types.Draft, error)
	UpdateDraft(ctx context.Context, userID, id uuid.UUID, patch DraftPatch) (*types.Draft, error)
	DeleteDraft(ctx context.Context, userID, id uuid.UUID) error
}

// Snapshot is the cached view used to paint a previous state before the
// authoritative remote fetch completes.
type Snapshot struct {
	Drafts        []*types.Draft `json:"drafts"`
	ActiveDraftID uuid.UUID      `json:"active_draft_id"`
}

// SnapshotCache is best-effort key-value snapshot storage. It is never
// authoritative and its failures are never surfaced to callers.
type SnapshotCache interface {
	Load(userID uuid.UUID) (*Snapshot, error)
	Save(userID uuid.UUID, snapshot Snapshot) error
	Clear(userID uuid.UUID) error
}

// Store owns all drafts for one user session. Remote-mutating operations
// serialize on an internal lock; the caller remains responsible for not
// issuing two mutations for the same draft concurrently (last writer wins,
// there is no version-conflict detection against the remote store).
type Store struct {
	persistence Persistence
	cache       SnapshotCache

	mu           sync.Mutex
	userID       uuid.UUID
	drafts       []*types.Draft
	activeID     uuid.UUID
	pending      *types.MergedContent
	history      []types.HistoryEntry
	historyIndex int
	errMsg       string

	// loading is tracked outside mu so pollers can observe it while a
	// remote operation holds the lock across the network call.
	loading atomic.Bool

	// now is swappable for deterministic timestamps in tests.
	now func() time.Time
}

// New creates a store backed by the given persistence service. The cache
// may be nil when no local snapshot tier is available.
func New(p Persistence, c SnapshotCache) *Store {
	return &Store{
		persistence:  p,
		cache:        c,
		historyIndex: -1,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SetUserID initializes the identity every remote operation is keyed by.
func (s *Store) SetUserID(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id
}

// PrimeFromCache paints the last cached snapshot into memory so the UI has
// something to show before LoadAllDrafts returns. Best-effort: a missing
// or unreadable snapshot leaves the store empty.
func (s *Store) PrimeFromCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil || s.userID == uuid.Nil {
		return
	}
	snapshot, err := s.cache.Load(s.userID)
	if err != nil || snapshot == nil {
		return
	}
	s.drafts = snapshot.Drafts
	s.activeID = snapshot.ActiveDraftID
	if s.findDraft(s.activeID) == nil {
		s.activeID = uuid.Nil
	}
}

// GetActiveDraft returns the active draft, or nil when none is active.
// It never fails.
func (s *Store) GetActiveDraft() *types.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findDraft(s.activeID)
}

// SetActiveDraft switches the active draft. Switching discards the
// previous draft's history and pending content; activating an unknown id
// deactivates. The change is local and reflected in the cache snapshot.
func (s *Store) SetActiveDraft(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.activeID {
		return
	}
	s.pending = nil
	s.resetHistory()
	if s.findDraft(id) == nil {
		s.activeID = uuid.Nil
		s.saveCache()
		return
	}
	s.activeID = id
	s.seedHistory("activate")
	s.saveCache()
}

// Drafts returns the current local draft list in load order.
func (s *Store) Drafts() []*types.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*types.Draft(nil), s.drafts...)
}

// PendingContent returns generated content not yet applied to the draft.
func (s *Store) PendingContent() *types.MergedContent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// SetPendingContent stages an orchestrator result for the apply operations.
func (s *Store) SetPendingContent(content *types.MergedContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = content
}

// Err returns the last operation error message, empty when none.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Loading reports whether a remote operation is in flight. It does not
// take the store lock, so it can be read mid-operation.
func (s *Store) Loading() bool {
	return s.loading.Load()
}

// HistoryLen returns the number of history entries for the active draft.
func (s *Store) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// HistoryIndex returns the cursor into the history sequence, -1 when empty.
func (s *Store) HistoryIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyIndex
}

// Undo steps the history cursor back one entry and restores that snapshot
// as the active draft's in-memory state. It never writes to the remote
// store; persisting an undone state requires a new edit or apply. Undo at
// the oldest entry is a no-op.
func (s *Store) Undo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.historyIndex <= 0 {
		return
	}
	s.historyIndex--
	s.restoreSnapshot()
}

// Redo steps the history cursor forward one entry. Redo at the newest
// entry is a no-op.
func (s *Store) Redo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.historyIndex < 0 || s.historyIndex >= len(s.history)-1 {
		return
	}
	s.historyIndex++
	s.restoreSnapshot()
}

// restoreSnapshot replaces the active draft with the history entry at the
// cursor. Callers hold s.mu.
func (s *Store) restoreSnapshot() {
	entry := s.history[s.historyIndex]
	for i, d := range s.drafts {
		if d.ID == entry.Snapshot.ID {
			s.drafts[i] = entry.Snapshot.Clone()
			return
		}
	}
}

// pushHistory snapshots the active draft under the given label. A push
// after Undo discards the redo tail. The sequence is bounded: once full,
// the oldest entry is dropped and the cursor clamped. Callers hold s.mu.
func (s *Store) pushHistory(label string) {
	active := s.findDraft(s.activeID)
	if active == nil {
		return
	}
	if s.historyIndex < len(s.history)-1 {
		s.history = s.history[:s.historyIndex+1]
	}
	s.history = append(s.history, types.HistoryEntry{
		Label:     label,
		Snapshot:  *active.Clone(),
		CreatedAt: s.now(),
	})
	if len(s.history) > MaxHistoryEntries {
		s.history = s.history[len(s.history)-MaxHistoryEntries:]
	}
	s.historyIndex = len(s.history) - 1
}

// seedHistory starts a fresh one-entry history. Callers hold s.mu.
func (s *Store) seedHistory(label string) {
	s.history = nil
	s.historyIndex = -1
	s.pushHistory(label)
}

// resetHistory discards all history. Callers hold s.mu.
func (s *Store) resetHistory() {
	s.history = nil
	s.historyIndex = -1
}

// findDraft returns the local entry with the given id. Callers hold s.mu.
func (s *Store) findDraft(id uuid.UUID) *types.Draft {
	if id == uuid.Nil {
		return nil
	}
	for _, d := range s.drafts {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// replaceDraft swaps the local entry for the server's returned record.
// Callers hold s.mu.
func (s *Store) replaceDraft(record *types.Draft) {
	for i, d := range s.drafts {
		if d.ID == record.ID {
			s.drafts[i] = record
			return
		}
	}
	s.drafts = append(s.drafts, record)
}

// saveCache refreshes the local snapshot. Best-effort; a cache failure is
// deliberately swallowed. Callers hold s.mu.
func (s *Store) saveCache() {
	if s.cache == nil || s.userID == uuid.Nil {
		return
	}
	_ = s.cache.Save(s.userID, Snapshot{
		Drafts:        append([]*types.Draft(nil), s.drafts...),
		ActiveDraftID: s.activeID,
	})
}

// setErr records a readable error message. Callers hold s.mu.
func (s *Store) setErr(msg string) {
	s.errMsg = msg
}
