package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownSegments(t *testing.T) {
	for _, key := range []string{"base", "skills", "experience"} {
		t.Run(key, func(t *testing.T) {
			template, err := Get(key)
			require.NoError(t, err)
			assert.Contains(t, template, "{{.Profile}}")
			assert.Contains(t, template, "{{.Job}}")
		})
	}
}

func TestGetUnknownSegment(t *testing.T) {
	_, err := Get("cover-letter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cover-letter")
}

func TestMustGetPanicsOnUnknown(t *testing.T) {
	assert.NotPanics(t, func() { MustGet("base") })
	assert.Panics(t, func() { MustGet("nope") })
}

func TestFormat(t *testing.T) {
	got := Format("Profile: {{.Profile}}\nJob: {{.Job}}", map[string]string{
		"Profile": `{"name": "Alice"}`,
		"Job":     "Go Engineer",
	})
	assert.Equal(t, "Profile: {\"name\": \"Alice\"}\nJob: Go Engineer", got)
}

func TestFormatLeavesUnknownPlaceholders(t *testing.T) {
	got := Format("{{.Profile}} and {{.Other}}", map[string]string{"Profile": "x"})
	assert.Equal(t, "x and {{.Other}}", got)
}

func TestFormatFullTemplate(t *testing.T) {
	template := MustGet("base")
	got := Format(template, map[string]string{"Profile": "PROFILE_JSON", "Job": "JOB_TEXT"})
	assert.Contains(t, got, "PROFILE_JSON")
	assert.Contains(t, got, "JOB_TEXT")
	assert.False(t, strings.Contains(got, "{{."), "all placeholders substituted")
}

func TestKeys(t *testing.T) {
	keys, err := Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "experience", "skills"}, keys)
}
