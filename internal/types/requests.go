package types

import "github.com/go-playground/validator/v10"

// CreateDraftRequest represents the request to create a new draft.
type CreateDraftRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=120"`
	TemplateID string `json:"template_id,omitempty"`
	JobURL     string `json:"job_url,omitempty" validate:"omitempty,url"`
}

// RenameDraftRequest represents the request to rename an existing draft.
type RenameDraftRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// SetJobLinkRequest represents the request to link a draft to a job posting.
// Either a job id with cached display fields, or a posting URL to ingest.
type SetJobLinkRequest struct {
	JobID   string `json:"job_id,omitempty"`
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
	JobURL  string `json:"job_url,omitempty" validate:"omitempty,url"`
}

// GenerateRequest represents the request to start a generation run.
type GenerateRequest struct {
	JobID             string `json:"job_id" validate:"required"`
	IncludeSkills     bool   `json:"include_skills"`
	IncludeExperience bool   `json:"include_experience"`
}

// Options converts the request flags into orchestrator options.
func (r GenerateRequest) Options() GenerationOptions {
	return GenerationOptions{
		IncludeSkills:     r.IncludeSkills,
		IncludeExperience: r.IncludeExperience,
	}
}

var validate = validator.New()

// ValidateStruct validates any request struct using its validate tags.
func ValidateStruct(s any) error {
	return validate.Struct(s)
}
