// Package schemas validates LLM segment output against embedded JSON Schemas
// before it is accepted into a generation run.
package schemas

// BaseSchema describes the full first-pass output of the base segment.
const BaseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "BaseContent",
  "type": "object",
  "required": ["summary"],
  "properties": {
    "summary": {"type": "string", "minLength": 1},
    "skills": {"type": "array", "items": {"type": "string"}},
    "experience": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "company", "role"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "company": {"type": "string"},
          "role": {"type": "string"},
          "start_date": {"type": "string"},
          "end_date": {"type": "string"},
          "bullets": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "school"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "school": {"type": "string"},
          "degree": {"type": "string"},
          "field": {"type": "string"},
          "start_date": {"type": "string"},
          "end_date": {"type": "string"}
        }
      }
    },
    "projects": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "description": {"type": "string"},
          "bullets": {"type": "array", "items": {"type": "string"}},
          "skills": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "preview": {"type": "string"}
  }
}`

// SkillsSchema describes the optional skills segment output.
const SkillsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "SkillsContent",
  "type": "object",
  "required": ["ordered"],
  "properties": {
    "ordered": {"type": "array", "items": {"type": "string"}, "minItems": 1},
    "emphasized": {"type": "array", "items": {"type": "string"}},
    "added": {"type": "array", "items": {"type": "string"}}
  }
}`

// ExperienceSchema describes the optional experience segment output.
const ExperienceSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "ExperienceContent",
  "type": "object",
  "required": ["roles"],
  "properties": {
    "roles": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["role_id", "bullets"],
        "properties": {
          "role_id": {"type": "string", "minLength": 1},
          "bullets": {"type": "array", "items": {"type": "string"}, "minItems": 1}
        }
      }
    }
  }
}`

// ValidateBase checks raw base segment JSON against BaseSchema.
func ValidateBase(jsonContent string) error {
	return ValidateJSONString(BaseSchema, jsonContent)
}

// ValidateSkills checks raw skills segment JSON against SkillsSchema.
func ValidateSkills(jsonContent string) error {
	return ValidateJSONString(SkillsSchema, jsonContent)
}

// ValidateExperience checks raw experience segment JSON against ExperienceSchema.
func ValidateExperience(jsonContent string) error {
	return ValidateJSONString(ExperienceSchema, jsonContent)
}
