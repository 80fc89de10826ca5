package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{genai.Text(`{"summary": `), genai.Text(`"Go engineer"}`)},
			},
		}},
	}

	text, err := candidateText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"summary": "Go engineer"}`, text)
}

func TestCandidateText_Empty(t *testing.T) {
	_, err := candidateText(&genai.GenerateContentResponse{})
	assert.ErrorContains(t, err, "no candidates")

	_, err = candidateText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{}},
	})
	assert.ErrorContains(t, err, "no content")

	_, err = candidateText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
	})
	assert.ErrorContains(t, err, "no text parts")
}
