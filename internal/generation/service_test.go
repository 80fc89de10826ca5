package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/draft-assistant/internal/llm"
	"github.com/jonathan/draft-assistant/internal/types"
)

type fakeLLM struct {
	responses map[string]string // keyed by a substring of the prompt
	err       error
	lastTier  llm.ModelTier
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastTier = tier
	if f.err != nil {
		return "", f.err
	}
	for needle, resp := range f.responses {
		if strings.Contains(prompt, needle) {
			return resp, nil
		}
	}
	return "", errors.New("no canned response for prompt")
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                  { return nil }

type staticSource struct {
	pc  *PromptContext
	err error
}

func (s *staticSource) PromptContext(context.Context, uuid.UUID, string) (*PromptContext, error) {
	return s.pc, s.err
}

func newTestService(f *fakeLLM) *Service {
	return NewService(f, &staticSource{pc: &PromptContext{
		Profile: `{"name": "Alice"}`,
		Job:     "Senior Go Engineer at Acme",
	}})
}

func TestGenerateBase(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		"tailored first draft": `{"summary": "Go engineer.", "skills": ["Go", "SQL"], "preview": "..."}`,
	}}
	svc := newTestService(f)

	content, err := svc.GenerateBase(context.Background(), uuid.New(), "job-1", types.GenerationOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Go engineer.", content.Summary)
	assert.Equal(t, []string{"Go", "SQL"}, content.Skills)
	assert.Equal(t, llm.TierAdvanced, f.lastTier)
}

func TestGenerateBase_SchemaRejection(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		"tailored first draft": `{"skills": ["Go"]}`,
	}}
	svc := newTestService(f)

	_, err := svc.GenerateBase(context.Background(), uuid.New(), "job-1", types.GenerationOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base segment output rejected")
}

func TestGenerateSkills(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		"Reorder the candidate's skills": `{"ordered": ["SQL", "Go"], "emphasized": ["SQL"], "added": ["gRPC"]}`,
	}}
	svc := newTestService(f)

	content, err := svc.GenerateSkills(context.Background(), uuid.New(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"SQL", "Go"}, content.Ordered)
	assert.Equal(t, []string{"gRPC"}, content.Added)
	assert.Equal(t, llm.TierStandard, f.lastTier)
}

func TestGenerateExperience(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		"rewrite its bullets": `{"roles": [{"role_id": "exp-1", "bullets": ["Shipped the thing"]}]}`,
	}}
	svc := newTestService(f)

	content, err := svc.GenerateExperience(context.Background(), uuid.New(), "job-1")
	require.NoError(t, err)
	require.Len(t, content.Roles, 1)
	assert.Equal(t, "exp-1", content.Roles[0].RoleID)
}

func TestGenerate_LLMError(t *testing.T) {
	f := &fakeLLM{err: errors.New("rate limited")}
	svc := newTestService(f)

	_, err := svc.GenerateSkills(context.Background(), uuid.New(), "job-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate skills segment")
}

func TestGenerate_ContextSourceError(t *testing.T) {
	svc := NewService(&fakeLLM{}, &staticSource{err: errors.New("job not found")})

	_, err := svc.GenerateBase(context.Background(), uuid.New(), "missing", types.GenerationOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve prompt context")
}

func TestGenerate_MalformedJSON(t *testing.T) {
	f := &fakeLLM{responses: map[string]string{
		"Reorder the candidate's skills": `not json at all`,
	}}
	svc := newTestService(f)

	_, err := svc.GenerateSkills(context.Background(), uuid.New(), "job-1")
	require.Error(t, err)
}

// The service must satisfy the orchestrator's Generator contract.
var _ interface {
	GenerateBase(context.Context, uuid.UUID, string, types.GenerationOptions) (*types.BaseContent, error)
	GenerateSkills(context.Context, uuid.UUID, string) (*types.SkillsContent, error)
	GenerateExperience(context.Context, uuid.UUID, string) (*types.ExperienceContent, error)
} = (*Service)(nil)
