package types

// SegmentKey identifies one independently-generated unit of content
// within a generation run.
type SegmentKey string

const (
	// SegmentBase is the mandatory segment every run starts with.
	SegmentBase SegmentKey = "base"
	// SegmentSkills is the optional skill-ordering segment.
	SegmentSkills SegmentKey = "skills"
	// SegmentExperience is the optional per-role bullet rewrite segment.
	SegmentExperience SegmentKey = "experience"
)

// OptionalSegments lists every segment that can be toggled by options.
func OptionalSegments() []SegmentKey {
	return []SegmentKey{SegmentSkills, SegmentExperience}
}

// SegmentStatus is the lifecycle state of a single segment within a run.
type SegmentStatus string

const (
	SegmentIdle    SegmentStatus = "idle"
	SegmentRunning SegmentStatus = "running"
	SegmentSuccess SegmentStatus = "success"
	SegmentError   SegmentStatus = "error"
	SegmentSkipped SegmentStatus = "skipped"
)

// GenerationOptions selects which optional segments a run should include.
type GenerationOptions struct {
	IncludeSkills     bool `json:"include_skills"`
	IncludeExperience bool `json:"include_experience"`
}

// Requested reports whether the given optional segment was asked for.
func (o GenerationOptions) Requested(key SegmentKey) bool {
	switch key {
	case SegmentSkills:
		return o.IncludeSkills
	case SegmentExperience:
		return o.IncludeExperience
	default:
		return false
	}
}

// BaseContent is the output of the mandatory base segment: a full first
// pass over every draft section.
type BaseContent struct {
	Summary    string            `json:"summary"`
	Skills     []string          `json:"skills,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty"`
	Education  []EducationEntry  `json:"education,omitempty"`
	Projects   []ProjectEntry    `json:"projects,omitempty"`
	Preview    string            `json:"preview,omitempty"`
}

// SkillsContent is the output of the optional skills segment: a reordered
// skill list with emphasis and suggested additions.
type SkillsContent struct {
	Ordered    []string `json:"ordered"`
	Emphasized []string `json:"emphasized,omitempty"`
	Added      []string `json:"added,omitempty"`
}

// RoleBullets carries rewritten bullets for one role, matched to the base
// content by role id.
type RoleBullets struct {
	RoleID  string   `json:"role_id"`
	Bullets []string `json:"bullets"`
}

// ExperienceContent is the output of the optional experience segment.
type ExperienceContent struct {
	Roles []RoleBullets `json:"roles"`
}

// SegmentFlags records which optional contributions are present in a
// merged result, so consumers never re-derive it.
type SegmentFlags struct {
	Skills     bool `json:"skills"`
	Experience bool `json:"experience"`
}

// MergedContent is the union of the base segment with the normalized
// contributions of each successful optional segment.
type MergedContent struct {
	Summary          string            `json:"summary"`
	Skills           []string          `json:"skills,omitempty"`
	SkillsEmphasized []string          `json:"skills_emphasized,omitempty"`
	SkillsAdded      []string          `json:"skills_added,omitempty"`
	Experience       []ExperienceEntry `json:"experience,omitempty"`
	Education        []EducationEntry  `json:"education,omitempty"`
	Projects         []ProjectEntry    `json:"projects,omitempty"`
	Preview          string            `json:"preview,omitempty"`
	Segments         SegmentFlags      `json:"segments"`
}
