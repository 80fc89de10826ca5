// Package generation produces segment content with an LLM, validating every
// response against its JSON Schema before handing it to the run.
package generation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/draft-assistant/internal/llm"
	"github.com/jonathan/draft-assistant/internal/prompts"
	"github.com/jonathan/draft-assistant/internal/schemas"
	"github.com/jonathan/draft-assistant/internal/types"
)

// PromptContext carries the material a segment prompt is built from.
type PromptContext struct {
	// Profile is the candidate profile, JSON-encoded.
	Profile string
	// Job is the job posting text.
	Job string
}

// ContextSource resolves the prompt material for a user and job.
type ContextSource interface {
	PromptContext(ctx context.Context, userID uuid.UUID, jobID string) (*PromptContext, error)
}

// Service generates segment content. It satisfies the orchestrator's
// Generator interface.
type Service struct {
	client llm.Client
	source ContextSource
}

// NewService creates a generation service backed by an LLM client.
func NewService(client llm.Client, source ContextSource) *Service {
	return &Service{client: client, source: source}
}

// GenerateBase produces the mandatory first pass over every section.
func (s *Service) GenerateBase(ctx context.Context, userID uuid.UUID, jobID string, _ types.GenerationOptions) (*types.BaseContent, error) {
	raw, err := s.generateSegment(ctx, userID, jobID, "base", llm.TierAdvanced)
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateBase(raw); err != nil {
		return nil, fmt.Errorf("base segment output rejected: %w", err)
	}

	var content types.BaseContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, fmt.Errorf("failed to parse base segment output: %w", err)
	}
	return &content, nil
}

// GenerateSkills produces the optional skill-ordering segment.
func (s *Service) GenerateSkills(ctx context.Context, userID uuid.UUID, jobID string) (*types.SkillsContent, error) {
	raw, err := s.generateSegment(ctx, userID, jobID, "skills", llm.TierStandard)
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateSkills(raw); err != nil {
		return nil, fmt.Errorf("skills segment output rejected: %w", err)
	}

	var content types.SkillsContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, fmt.Errorf("failed to parse skills segment output: %w", err)
	}
	return &content, nil
}

// GenerateExperience produces the optional per-role bullet rewrite segment.
func (s *Service) GenerateExperience(ctx context.Context, userID uuid.UUID, jobID string) (*types.ExperienceContent, error) {
	raw, err := s.generateSegment(ctx, userID, jobID, "experience", llm.TierStandard)
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateExperience(raw); err != nil {
		return nil, fmt.Errorf("experience segment output rejected: %w", err)
	}

	var content types.ExperienceContent
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return nil, fmt.Errorf("failed to parse experience segment output: %w", err)
	}
	return &content, nil
}

func (s *Service) generateSegment(ctx context.Context, userID uuid.UUID, jobID, promptKey string, tier llm.ModelTier) (string, error) {
	pc, err := s.source.PromptContext(ctx, userID, jobID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve prompt context: %w", err)
	}

	template, err := prompts.Get(promptKey)
	if err != nil {
		return "", err
	}

	prompt := prompts.Format(template, map[string]string{
		"Profile": pc.Profile,
		"Job":     pc.Job,
	})

	raw, err := s.client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s segment: %w", promptKey, err)
	}
	return raw, nil
}
