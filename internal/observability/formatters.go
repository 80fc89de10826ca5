// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/draft-assistant/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDraft outputs a human-readable summary of a draft and its sections.
func (p *Printer) PrintDraft(draft *types.Draft) {
	if draft == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", draft.Name))
	sb.WriteString(fmt.Sprintf("ID:       %s\n", draft.ID))
	if draft.TemplateID != "" {
		sb.WriteString(fmt.Sprintf("Template: %s\n", draft.TemplateID))
	}
	if job := draft.Metadata.Job; job != nil {
		sb.WriteString(fmt.Sprintf("Job:      %s", job.JobID))
		if job.Title != "" {
			sb.WriteString(fmt.Sprintf(" (%s", job.Title))
			if job.Company != "" {
				sb.WriteString(fmt.Sprintf(" @ %s", job.Company))
			}
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nSections:\n")
	for _, section := range draft.Metadata.Sections {
		visibility := "shown"
		if !section.Visible {
			visibility = "hidden"
		}
		sb.WriteString(fmt.Sprintf("  • %-12s %-12s %s\n", section.Type, section.State, visibility))
	}

	p.printBox("DRAFT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunState outputs the per-segment status of a generation run.
func (p *Printer) PrintRunState(state map[types.SegmentKey]types.SegmentStatus, lastErr string) {
	if len(state) == 0 {
		return
	}

	var sb strings.Builder
	for _, key := range []types.SegmentKey{types.SegmentBase, types.SegmentSkills, types.SegmentExperience} {
		status, ok := state[key]
		if !ok {
			continue
		}
		marker := " "
		switch status {
		case types.SegmentSuccess:
			marker = "✓"
		case types.SegmentError:
			marker = "✗"
		case types.SegmentRunning:
			marker = "…"
		}
		sb.WriteString(fmt.Sprintf("  %s %-12s %s\n", marker, key, status))
	}
	if lastErr != "" {
		sb.WriteString(fmt.Sprintf("\nError: %s\n", lastErr))
	}

	p.printBox("GENERATION RUN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMergedContent outputs a summary of a merged generation result.
func (p *Printer) PrintMergedContent(merged *types.MergedContent) {
	if merged == nil {
		return
	}

	var sb strings.Builder

	if merged.Summary != "" {
		sb.WriteString("Summary:\n")
		sb.WriteString(fmt.Sprintf("  %s\n\n", merged.Summary))
	}

	if len(merged.Skills) > 0 {
		sb.WriteString("Skills:\n")
		count := min(len(merged.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", merged.Skills[i]))
		}
		if len(merged.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(merged.Skills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Experience roles: %d\n", len(merged.Experience)))
	sb.WriteString(fmt.Sprintf("Skills segment:      %v\n", merged.Segments.Skills))
	sb.WriteString(fmt.Sprintf("Experience segment:  %v\n", merged.Segments.Experience))

	p.printBox("MERGED CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}
