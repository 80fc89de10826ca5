// Package types provides type definitions for structured data used throughout the draft-assistant system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SectionType identifies one named content region of a draft.
type SectionType string

// Known section types, in default display order.
const (
	SectionSummary    SectionType = "summary"
	SectionSkills     SectionType = "skills"
	SectionExperience SectionType = "experience"
	SectionEducation  SectionType = "education"
	SectionProjects   SectionType = "projects"
)

// SectionState tracks where a section's content came from.
type SectionState string

const (
	// SectionEmpty means the section has no content yet.
	SectionEmpty SectionState = "empty"
	// SectionApplied means the content was written by an AI apply operation.
	SectionApplied SectionState = "applied"
	// SectionFromProfile means the content was seeded from the user's profile.
	SectionFromProfile SectionState = "from-profile"
	// SectionEdited means the user manually edited the content.
	SectionEdited SectionState = "edited"
)

// Section describes one region of a draft. Identity (Type) is stable;
// only state, visibility and the timestamp change.
type Section struct {
	Type      SectionType  `json:"type"`
	Visible   bool         `json:"visible"`
	State     SectionState `json:"state"`
	UpdatedAt time.Time    `json:"updated_at,omitzero"`
}

// DefaultSections returns the section descriptors for a fresh draft.
func DefaultSections() []Section {
	order := []SectionType{SectionSummary, SectionSkills, SectionExperience, SectionEducation, SectionProjects}
	sections := make([]Section, 0, len(order))
	for _, t := range order {
		sections = append(sections, Section{Type: t, Visible: true, State: SectionEmpty})
	}
	return sections
}

// ExperienceEntry represents a single role on the draft
type ExperienceEntry struct {
	ID        string   `json:"id"`
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
}

// EducationEntry represents a single education record on the draft
type EducationEntry struct {
	ID        string `json:"id"`
	School    string `json:"school"`
	Degree    string `json:"degree,omitempty"`
	Field     string `json:"field,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// ProjectEntry represents a single project record on the draft
type ProjectEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
	Skills      []string `json:"skills,omitempty"`
}

// DraftContent holds the section-specific content of a draft.
type DraftContent struct {
	Summary    string            `json:"summary,omitempty"`
	Skills     []string          `json:"skills,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty"`
	Education  []EducationEntry  `json:"education,omitempty"`
	Projects   []ProjectEntry    `json:"projects,omitempty"`
}

// JobLink ties a draft to the job posting it targets. Title and company
// are cached for display so the UI never re-fetches the posting.
type JobLink struct {
	JobID   string `json:"job_id"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
}

// DraftMetadata carries the section descriptors, timestamps and the
// optional job linkage of a draft.
type DraftMetadata struct {
	Sections  []Section `json:"sections"`
	Job       *JobLink  `json:"job,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Draft is a named, user-owned document-in-progress.
type Draft struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	TemplateID string        `json:"template_id,omitempty"`
	Content    DraftContent  `json:"content"`
	Metadata   DraftMetadata `json:"metadata"`
}

// NewDraft builds an in-memory draft with default sections and empty content.
func NewDraft(name, templateID string, job *JobLink) *Draft {
	now := time.Now().UTC()
	return &Draft{
		ID:         uuid.New(),
		Name:       name,
		TemplateID: templateID,
		Metadata: DraftMetadata{
			Sections:  DefaultSections(),
			Job:       job,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// Section returns a pointer to the section descriptor of the given type,
// or nil if the draft has no such section.
func (d *Draft) Section(t SectionType) *Section {
	for i := range d.Metadata.Sections {
		if d.Metadata.Sections[i].Type == t {
			return &d.Metadata.Sections[i]
		}
	}
	return nil
}

// SetSectionState updates the state and timestamp of the named section.
// Unknown sections are ignored.
func (d *Draft) SetSectionState(t SectionType, state SectionState, at time.Time) {
	if s := d.Section(t); s != nil {
		s.State = state
		s.UpdatedAt = at
	}
}

// ClearContent resets all content and marks every section empty.
func (d *Draft) ClearContent(at time.Time) {
	d.Content = DraftContent{}
	for i := range d.Metadata.Sections {
		d.Metadata.Sections[i].State = SectionEmpty
		d.Metadata.Sections[i].UpdatedAt = at
	}
	d.Metadata.UpdatedAt = at
}

// Clone returns a deep copy of the draft, suitable for history snapshots.
func (d *Draft) Clone() *Draft {
	c := *d
	c.Content.Skills = append([]string(nil), d.Content.Skills...)
	c.Content.Experience = cloneExperience(d.Content.Experience)
	c.Content.Education = append([]EducationEntry(nil), d.Content.Education...)
	c.Content.Projects = cloneProjects(d.Content.Projects)
	c.Metadata.Sections = append([]Section(nil), d.Metadata.Sections...)
	if d.Metadata.Job != nil {
		job := *d.Metadata.Job
		c.Metadata.Job = &job
	}
	return &c
}

func cloneExperience(entries []ExperienceEntry) []ExperienceEntry {
	if entries == nil {
		return nil
	}
	out := make([]ExperienceEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		out[i].Bullets = append([]string(nil), e.Bullets...)
	}
	return out
}

func cloneProjects(entries []ProjectEntry) []ProjectEntry {
	if entries == nil {
		return nil
	}
	out := make([]ProjectEntry, len(entries))
	for i, p := range entries {
		out[i] = p
		out[i].Bullets = append([]string(nil), p.Bullets...)
		out[i].Skills = append([]string(nil), p.Skills...)
	}
	return out
}

// Validate checks draft-level invariants: a section marked applied or
// edited must have corresponding non-empty content.
func (d *Draft) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("draft name cannot be empty")
	}
	for _, s := range d.Metadata.Sections {
		if s.State != SectionApplied && s.State != SectionEdited {
			continue
		}
		if !d.sectionHasContent(s.Type) {
			return fmt.Errorf("section %s is marked %s but has no content", s.Type, s.State)
		}
	}
	return nil
}

func (d *Draft) sectionHasContent(t SectionType) bool {
	switch t {
	case SectionSummary:
		return d.Content.Summary != ""
	case SectionSkills:
		return len(d.Content.Skills) > 0
	case SectionExperience:
		return len(d.Content.Experience) > 0
	case SectionEducation:
		return len(d.Content.Education) > 0
	case SectionProjects:
		return len(d.Content.Projects) > 0
	default:
		return false
	}
}
