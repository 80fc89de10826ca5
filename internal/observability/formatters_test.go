package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/draft-assistant/internal/types"
)

func TestPrintDraft(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	draft := types.NewDraft("Backend role", "modern", &types.JobLink{
		JobID:   "abc123",
		Title:   "Senior Go Engineer",
		Company: "Acme",
	})
	p.PrintDraft(draft)

	out := buf.String()
	assert.Contains(t, out, "DRAFT")
	assert.Contains(t, out, "Backend role")
	assert.Contains(t, out, "summary")
	assert.Contains(t, out, "shown")
}

func TestPrintDraft_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDraft(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRunState(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunState(map[types.SegmentKey]types.SegmentStatus{
		types.SegmentBase:       types.SegmentSuccess,
		types.SegmentSkills:     types.SegmentError,
		types.SegmentExperience: types.SegmentSkipped,
	}, "skills generation failed")

	out := buf.String()
	assert.Contains(t, out, "GENERATION RUN")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "skills generation failed")
}

func TestPrintRunState_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunState(nil, "")
	assert.Empty(t, buf.String())
}

func TestPrintMergedContent(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMergedContent(&types.MergedContent{
		Summary: "Engineer with Go experience.",
		Skills:  []string{"Go", "SQL", "Kubernetes", "Postgres", "Redis", "Kafka"},
		Segments: types.SegmentFlags{
			Skills: true,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "MERGED CONTENT")
	assert.Contains(t, out, "Engineer with Go experience.")
	assert.Contains(t, out, "... and 1 more")
}
