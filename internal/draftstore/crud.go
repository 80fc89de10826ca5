package draftstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/draft-assistant/internal/types"
)

// CreateDraft persists a new draft remotely, then admits it locally, makes
// it active and seeds history. On failure no partial local draft is left
// behind and the returned id is uuid.Nil.
func (s *Store) CreateDraft(ctx context.Context, name, templateID string, job *types.JobLink) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == uuid.Nil {
		s.setErr("cannot create draft: no user identity")
		return uuid.Nil, fmt.Errorf("cannot create draft: no user identity")
	}

	draft := types.NewDraft(name, templateID, job)
	if err := draft.Validate(); err != nil {
		s.setErr(err.Error())
		return uuid.Nil, err
	}

	s.loading.Store(true)
	record, err := s.persistence.CreateDraft(ctx, s.userID, draft)
	s.loading.Store(false)
	if err != nil {
		s.setErr(fmt.Sprintf("create draft failed: %v", err))
		return uuid.Nil, fmt.Errorf("create draft failed: %w", err)
	}

	s.setErr("")
	s.drafts = append(s.drafts, record)
	s.activeID = record.ID
	s.pending = nil
	s.seedHistory("create")
	s.saveCache()
	return record.ID, nil
}

// LoadDraft fetches the authoritative record, replaces the local entry,
// makes it active and seeds a fresh "load" history. Pending AI content is
// discarded.
func (s *Store) LoadDraft(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == uuid.Nil {
		s.setErr("cannot load draft: no user identity")
		return fmt.Errorf("cannot load draft: no user identity")
	}

	s.loading.Store(true)
	record, err := s.persistence.GetDraft(ctx, s.userID, id)
	s.loading.Store(false)
	if err != nil {
		s.setErr(fmt.Sprintf("load draft failed: %v", err))
		return fmt.Errorf("load draft failed: %w", err)
	}
	if record == nil {
		s.setErr(fmt.Sprintf("draft %s not found", id))
		return fmt.Errorf("draft %s not found", id)
	}

	s.setErr("")
	s.replaceDraft(record)
	s.activeID = record.ID
	s.pending = nil
	s.seedHistory("load")
	s.saveCache()
	return nil
}

// LoadAllDrafts replaces the local draft list with the remote one. History
// and pending content are cleared; the active draft is kept only if it
// still exists remotely.
func (s *Store) LoadAllDrafts(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == uuid.Nil {
		s.setErr("cannot load drafts: no user identity")
		return fmt.Errorf("cannot load drafts: no user identity")
	}

	s.loading.Store(true)
	records, err := s.persistence.ListDrafts(ctx, s.userID)
	s.loading.Store(false)
	if err != nil {
		s.setErr(fmt.Sprintf("load drafts failed: %v", err))
		return fmt.Errorf("load drafts failed: %w", err)
	}

	s.setErr("")
	s.drafts = records
	s.pending = nil
	s.resetHistory()
	if s.findDraft(s.activeID) == nil {
		s.activeID = uuid.Nil
	} else {
		s.seedHistory("load")
	}
	s.saveCache()
	return nil
}

// DeleteDraft removes the draft remotely first; only on success is it
// removed locally. Deleting the active draft deactivates without
// auto-selecting a replacement.
func (s *Store) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == uuid.Nil {
		s.setErr("cannot delete draft: no user identity")
		return fmt.Errorf("cannot delete draft: no user identity")
	}

	s.loading.Store(true)
	err := s.persistence.DeleteDraft(ctx, s.userID, id)
	s.loading.Store(false)
	if err != nil {
		s.setErr(fmt.Sprintf("delete draft failed: %v", err))
		return fmt.Errorf("delete draft failed: %w", err)
	}

	s.setErr("")
	for i, d := range s.drafts {
		if d.ID == id {
			s.drafts = append(s.drafts[:i], s.drafts[i+1:]...)
			break
		}
	}
	if s.activeID == id {
		s.activeID = uuid.Nil
		s.pending = nil
		s.resetHistory()
	}
	s.saveCache()
	return nil
}

// RenameDraft updates the display name remotely and replaces the local
// entry with the server's returned representation.
func (s *Store) RenameDraft(ctx context.Context, id uuid.UUID, name string) error {
	return s.patchDraft(ctx, id, DraftPatch{Name: &name})
}

// SetJobLink updates the draft's job linkage remotely.
func (s *Store) SetJobLink(ctx context.Context, id uuid.UUID, job types.JobLink) error {
	return s.patchDraft(ctx, id, DraftPatch{Job: &job})
}

// ChangeTemplate switches the draft's template reference remotely.
func (s *Store) ChangeTemplate(ctx context.Context, id uuid.UUID, templateID string) error {
	return s.patchDraft(ctx, id, DraftPatch{TemplateID: &templateID})
}

// patchDraft issues a partial remote update and, on success, replaces the
// local entry wholesale with the returned record. Never patched locally
// first, so server-side normalization can't drift from the local view.
func (s *Store) patchDraft(ctx context.Context, id uuid.UUID, patch DraftPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == uuid.Nil {
		s.setErr("cannot update draft: no user identity")
		return fmt.Errorf("cannot update draft: no user identity")
	}

	s.loading.Store(true)
	record, err := s.persistence.UpdateDraft(ctx, s.userID, id, patch)
	s.loading.Store(false)
	if err != nil {
		s.setErr(fmt.Sprintf("update draft failed: %v", err))
		return fmt.Errorf("update draft failed: %w", err)
	}
	if record == nil {
		s.setErr(fmt.Sprintf("draft %s not found", id))
		return fmt.Errorf("draft %s not found", id)
	}

	s.setErr("")
	s.replaceDraft(record)
	s.saveCache()
	return nil
}

// ClearDraft resets the active draft's content and section states locally
// and starts a fresh one-entry history. Nothing is written remotely until
// a subsequent apply or edit persists the cleared state. No-op when no
// draft is active.
func (s *Store) ClearDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.findDraft(s.activeID)
	if active == nil {
		return
	}
	active.ClearContent(s.now())
	s.pending = nil
	s.seedHistory("clear")
}
