package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraft_DefaultSections(t *testing.T) {
	d := NewDraft("Backend Engineer", "tmpl_modern", nil)

	require.Len(t, d.Metadata.Sections, 5)
	assert.Equal(t, SectionSummary, d.Metadata.Sections[0].Type)
	assert.Equal(t, SectionProjects, d.Metadata.Sections[4].Type)
	for _, s := range d.Metadata.Sections {
		assert.True(t, s.Visible)
		assert.Equal(t, SectionEmpty, s.State)
	}
	assert.NotEqual(t, d.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestDraft_SetSectionState(t *testing.T) {
	d := NewDraft("Test", "", nil)
	at := time.Now().UTC()

	d.SetSectionState(SectionSkills, SectionApplied, at)

	s := d.Section(SectionSkills)
	require.NotNil(t, s)
	assert.Equal(t, SectionApplied, s.State)
	assert.Equal(t, at, s.UpdatedAt)

	// Unknown section is ignored, not panicked on
	d.SetSectionState(SectionType("certifications"), SectionApplied, at)
	assert.Nil(t, d.Section(SectionType("certifications")))
}

func TestDraft_ClearContent(t *testing.T) {
	d := NewDraft("Test", "", nil)
	d.Content.Summary = "Seasoned engineer"
	d.Content.Skills = []string{"Go", "Postgres"}
	d.SetSectionState(SectionSummary, SectionApplied, time.Now())
	d.SetSectionState(SectionSkills, SectionEdited, time.Now())

	at := time.Now().UTC()
	d.ClearContent(at)

	assert.Empty(t, d.Content.Summary)
	assert.Empty(t, d.Content.Skills)
	for _, s := range d.Metadata.Sections {
		assert.Equal(t, SectionEmpty, s.State)
	}
	assert.Equal(t, at, d.Metadata.UpdatedAt)
}

func TestDraft_CloneIsDeep(t *testing.T) {
	d := NewDraft("Test", "", &JobLink{JobID: "42", Title: "SRE", Company: "Acme"})
	d.Content.Skills = []string{"Go"}
	d.Content.Experience = []ExperienceEntry{
		{ID: "exp_1", Company: "Acme", Role: "SRE", Bullets: []string{"ran prod"}},
	}

	c := d.Clone()
	c.Content.Skills[0] = "Rust"
	c.Content.Experience[0].Bullets[0] = "broke prod"
	c.Metadata.Sections[0].State = SectionApplied
	c.Metadata.Job.Company = "Globex"

	assert.Equal(t, "Go", d.Content.Skills[0])
	assert.Equal(t, "ran prod", d.Content.Experience[0].Bullets[0])
	assert.Equal(t, SectionEmpty, d.Metadata.Sections[0].State)
	assert.Equal(t, "Acme", d.Metadata.Job.Company)
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr bool
	}{
		{
			name:    "fresh draft is valid",
			mutate:  func(*Draft) {},
			wantErr: false,
		},
		{
			name: "applied section with content",
			mutate: func(d *Draft) {
				d.Content.Summary = "text"
				d.SetSectionState(SectionSummary, SectionApplied, time.Now())
			},
			wantErr: false,
		},
		{
			name: "applied section without content",
			mutate: func(d *Draft) {
				d.SetSectionState(SectionSkills, SectionApplied, time.Now())
			},
			wantErr: true,
		},
		{
			name: "edited section without content",
			mutate: func(d *Draft) {
				d.SetSectionState(SectionExperience, SectionEdited, time.Now())
			},
			wantErr: true,
		},
		{
			name: "empty name",
			mutate: func(d *Draft) {
				d.Name = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft("Test", "", nil)
			tt.mutate(d)
			err := d.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerationOptions_Requested(t *testing.T) {
	opts := GenerationOptions{IncludeSkills: true}
	assert.True(t, opts.Requested(SegmentSkills))
	assert.False(t, opts.Requested(SegmentExperience))
	assert.False(t, opts.Requested(SegmentBase))
}

func TestValidateStruct_CreateDraftRequest(t *testing.T) {
	assert.NoError(t, ValidateStruct(CreateDraftRequest{Name: "My Draft"}))
	assert.Error(t, ValidateStruct(CreateDraftRequest{}))
	assert.Error(t, ValidateStruct(CreateDraftRequest{Name: "x", JobURL: "not a url"}))
}

func TestValidateStruct_GenerateRequest(t *testing.T) {
	assert.NoError(t, ValidateStruct(GenerateRequest{JobID: "42"}))
	assert.Error(t, ValidateStruct(GenerateRequest{}))
}
