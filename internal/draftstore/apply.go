package draftstore

import (
	"context"
	"fmt"

	"github.com/jonathan/draft-assistant/internal/types"
)

// ApplySummary writes the pending merged content's summary into the active
// draft, marks the summary section applied and persists. No-op when there
// is no active draft, no pending content, or the summary field is absent.
func (s *Store) ApplySummary(ctx context.Context) error {
	return s.applyPending(ctx, "apply-summary", func(d *types.Draft, pending *types.MergedContent) []types.SectionType {
		if pending.Summary == "" {
			return nil
		}
		d.Content.Summary = pending.Summary
		return []types.SectionType{types.SectionSummary}
	})
}

// ApplySkills writes the pending skill list into the active draft.
func (s *Store) ApplySkills(ctx context.Context) error {
	return s.applyPending(ctx, "apply-skills", func(d *types.Draft, pending *types.MergedContent) []types.SectionType {
		if len(pending.Skills) == 0 {
			return nil
		}
		d.Content.Skills = append([]string(nil), pending.Skills...)
		return []types.SectionType{types.SectionSkills}
	})
}

// ApplyExperience writes the pending experience entries into the active
// draft.
func (s *Store) ApplyExperience(ctx context.Context) error {
	return s.applyPending(ctx, "apply-experience", func(d *types.Draft, pending *types.MergedContent) []types.SectionType {
		if len(pending.Experience) == 0 {
			return nil
		}
		d.Content.Experience = pending.Experience
		return []types.SectionType{types.SectionExperience}
	})
}

// ApplyAll writes every field present in the pending content into the
// active draft in one persisted step.
func (s *Store) ApplyAll(ctx context.Context) error {
	return s.applyPending(ctx, "apply-all", func(d *types.Draft, pending *types.MergedContent) []types.SectionType {
		var touched []types.SectionType
		if pending.Summary != "" {
			d.Content.Summary = pending.Summary
			touched = append(touched, types.SectionSummary)
		}
		if len(pending.Skills) > 0 {
			d.Content.Skills = append([]string(nil), pending.Skills...)
			touched = append(touched, types.SectionSkills)
		}
		if len(pending.Experience) > 0 {
			d.Content.Experience = pending.Experience
			touched = append(touched, types.SectionExperience)
		}
		if len(pending.Education) > 0 {
			d.Content.Education = pending.Education
			touched = append(touched, types.SectionEducation)
		}
		if len(pending.Projects) > 0 {
			d.Content.Projects = pending.Projects
			touched = append(touched, types.SectionProjects)
		}
		return touched
	})
}

// applyPending runs one apply operation: write into a working copy, mark
// the touched sections applied, persist remotely, and only on remote
// success admit the server record and push a history entry. The write
// callback returns the touched sections, empty meaning the needed field is
// absent and the operation is a no-op.
func (s *Store) applyPending(ctx context.Context, label string, write func(*types.Draft, *types.MergedContent) []types.SectionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.findDraft(s.activeID)
	if active == nil || s.pending == nil {
		return nil
	}

	working := active.Clone()
	touched := write(working, s.pending)
	if len(touched) == 0 {
		return nil
	}
	now := s.now()
	for _, section := range touched {
		working.SetSectionState(section, types.SectionApplied, now)
	}
	working.Metadata.UpdatedAt = now

	return s.persistWorking(ctx, working, label)
}

// EditSection is the manual edit path: content has a section-specific
// shape (string for summary, []string for skills, entry slices for the
// structured sections). Shape mismatches fail before any remote call.
func (s *Store) EditSection(ctx context.Context, section types.SectionType, content any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.findDraft(s.activeID)
	if active == nil {
		return nil
	}

	working := active.Clone()
	if err := writeSectionContent(working, section, content); err != nil {
		s.setErr(err.Error())
		return err
	}
	now := s.now()
	working.SetSectionState(section, types.SectionEdited, now)
	working.Metadata.UpdatedAt = now

	return s.persistWorking(ctx, working, "edit-"+string(section))
}

func writeSectionContent(d *types.Draft, section types.SectionType, content any) error {
	switch section {
	case types.SectionSummary:
		text, ok := content.(string)
		if !ok {
			return fmt.Errorf("summary content must be a string, got %T", content)
		}
		d.Content.Summary = text
	case types.SectionSkills:
		skills, ok := content.([]string)
		if !ok {
			return fmt.Errorf("skills content must be []string, got %T", content)
		}
		d.Content.Skills = skills
	case types.SectionExperience:
		entries, ok := content.([]types.ExperienceEntry)
		if !ok {
			return fmt.Errorf("experience content must be []types.ExperienceEntry, got %T", content)
		}
		d.Content.Experience = entries
	case types.SectionEducation:
		entries, ok := content.([]types.EducationEntry)
		if !ok {
			return fmt.Errorf("education content must be []types.EducationEntry, got %T", content)
		}
		d.Content.Education = entries
	case types.SectionProjects:
		entries, ok := content.([]types.ProjectEntry)
		if !ok {
			return fmt.Errorf("projects content must be []types.ProjectEntry, got %T", content)
		}
		d.Content.Projects = entries
	default:
		return fmt.Errorf("unknown section %q", section)
	}
	return nil
}

// persistWorking pushes the working copy's content and sections to the
// remote store, replaces the local entry with the returned record, pushes
// history and refreshes the cache. Callers hold s.mu.
func (s *Store) persistWorking(ctx context.Context, working *types.Draft, label string) error {
	content := working.Content
	sections := append([]types.Section(nil), working.Metadata.Sections...)

	s.loading.Store(true)
	record, err := s.persistence.UpdateDraft(ctx, s.userID, working.ID, DraftPatch{
		Content:  &content,
		Sections: sections,
	})
	s.loading.Store(false)
	if err != nil {
		s.setErr(fmt.Sprintf("%s failed: %v", label, err))
		return fmt.Errorf("%s failed: %w", label, err)
	}
	if record == nil {
		s.setErr(fmt.Sprintf("draft %s not found", working.ID))
		return fmt.Errorf("draft %s not found", working.ID)
	}

	s.setErr("")
	s.replaceDraft(record)
	s.pushHistory(label)
	s.saveCache()
	return nil
}

// ToggleSectionVisibility flips the visibility flag of one section on the
// active draft. Metadata-only remote update; no history entry is pushed.
func (s *Store) ToggleSectionVisibility(ctx context.Context, section types.SectionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.findDraft(s.activeID)
	if active == nil {
		return nil
	}

	working := active.Clone()
	target := working.Section(section)
	if target == nil {
		err := fmt.Errorf("unknown section %q", section)
		s.setErr(err.Error())
		return err
	}
	target.Visible = !target.Visible
	target.UpdatedAt = s.now()

	return s.patchSections(ctx, working)
}

// ReorderSections replaces the active draft's section order. The proposed
// order must be a permutation containing every existing section type; a
// missing section fails fast and leaves state unchanged.
func (s *Store) ReorderSections(ctx context.Context, order []types.SectionType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.findDraft(s.activeID)
	if active == nil {
		return nil
	}

	existing := active.Metadata.Sections
	if len(order) != len(existing) {
		err := fmt.Errorf("reorder must include all %d sections, got %d", len(existing), len(order))
		s.setErr(err.Error())
		return err
	}
	proposed := make(map[types.SectionType]bool, len(order))
	for _, t := range order {
		if proposed[t] {
			err := fmt.Errorf("reorder contains duplicate section %q", t)
			s.setErr(err.Error())
			return err
		}
		proposed[t] = true
	}
	for _, sec := range existing {
		if !proposed[sec.Type] {
			err := fmt.Errorf("reorder is missing section %q", sec.Type)
			s.setErr(err.Error())
			return err
		}
	}

	working := active.Clone()
	reordered := make([]types.Section, 0, len(order))
	for _, t := range order {
		reordered = append(reordered, *working.Section(t))
	}
	working.Metadata.Sections = reordered

	return s.patchSections(ctx, working)
}

// patchSections persists a metadata-only sections update. Callers hold s.mu.
func (s *Store) patchSections(ctx context.Context, working *types.Draft) error {
	s.loading.Store(true)
	record, err := s.persistence.UpdateDraft(ctx, s.userID, working.ID, DraftPatch{
		Sections: append([]types.Section(nil), working.Metadata.Sections...),
	})
	s.loading.Store(false)
	if err != nil {
		s.setErr(fmt.Sprintf("update sections failed: %v", err))
		return fmt.Errorf("update sections failed: %w", err)
	}
	if record == nil {
		s.setErr(fmt.Sprintf("draft %s not found", working.ID))
		return fmt.Errorf("draft %s not found", working.ID)
	}

	s.setErr("")
	s.replaceDraft(record)
	s.saveCache()
	return nil
}
