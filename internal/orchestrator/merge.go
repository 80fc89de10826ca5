package orchestrator

import "github.com/jonathan/draft-assistant/internal/types"

// Merge combines the base segment's content with the contributions of each
// successful optional segment. It is a pure function: inputs are never
// mutated and the result shares no slices with them. Optional segments are
// order-independent; base must be present.
func Merge(base *types.BaseContent, skills *types.SkillsContent, experience *types.ExperienceContent) *types.MergedContent {
	if base == nil {
		return nil
	}

	merged := &types.MergedContent{
		Summary:    base.Summary,
		Skills:     append([]string(nil), base.Skills...),
		Experience: cloneEntries(base.Experience),
		Education:  append([]types.EducationEntry(nil), base.Education...),
		Projects:   append([]types.ProjectEntry(nil), base.Projects...),
		Preview:    base.Preview,
	}

	if skills != nil {
		merged.Skills = append([]string(nil), skills.Ordered...)
		merged.SkillsEmphasized = append([]string(nil), skills.Emphasized...)
		merged.SkillsAdded = append([]string(nil), skills.Added...)
		merged.Segments.Skills = true
	}

	if experience != nil {
		for _, role := range experience.Roles {
			for i := range merged.Experience {
				if merged.Experience[i].ID == role.RoleID {
					merged.Experience[i].Bullets = append([]string(nil), role.Bullets...)
					break
				}
			}
		}
		merged.Segments.Experience = true
	}

	return merged
}

func cloneEntries(entries []types.ExperienceEntry) []types.ExperienceEntry {
	if entries == nil {
		return nil
	}
	out := make([]types.ExperienceEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		out[i].Bullets = append([]string(nil), e.Bullets...)
	}
	return out
}
