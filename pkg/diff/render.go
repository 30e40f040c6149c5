package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// contextLines is the number of unchanged lines printed around each change.
const contextLines = 3

// NoChangesMarker is emitted when a rendered change list is empty.
const NoChangesMarker = "(no changes)"

// Styles controls the appearance of rendered patches. The zero value renders
// plain text, which is what tests and non-TTY output use.
type Styles struct {
	Header  lipgloss.Style
	Context lipgloss.Style
	Removed lipgloss.Style
	Added   lipgloss.Style
}

// TerminalStyles returns the colored styles used when stdout is a terminal.
func TerminalStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true),
		Context: lipgloss.NewStyle().Faint(true),
		Removed: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Added:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// Renderer turns a Change sequence into a human-readable annotated patch.
type Renderer struct {
	styles Styles
}

// NewRenderer builds a Renderer with the given styles.
func NewRenderer(styles Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Render formats changes against the old and new texts they were computed
// from. Removed lines carry old-text line numbers, added lines new-text line
// numbers, context lines both implicitly via their position.
func (r *Renderer) Render(changes []Change, oldText, newText, label string) string {
	var b strings.Builder
	if label != "" {
		b.WriteString(r.styles.Header.Render(label))
		b.WriteByte('\n')
	}
	if len(changes) == 0 {
		b.WriteString(NoChangesMarker)
		b.WriteByte('\n')
		return b.String()
	}

	oldLines := SplitLines(oldText)
	newLines := SplitLines(newText)

	for idx, c := range changes {
		if idx > 0 {
			b.WriteString("...\n")
		}

		// Leading context comes from the old text just above the change.
		start := c.OldStart - 1 - contextLines
		if start < 0 {
			start = 0
		}
		for n := start; n < c.OldStart-1; n++ {
			fmt.Fprintf(&b, "  %4d  %s\n", n+1, r.styles.Context.Render(oldLines[n]))
		}

		for k, line := range c.OldLines {
			fmt.Fprintf(&b, "- %4d  %s\n", c.OldStart+k, r.styles.Removed.Render(line))
		}
		for k, line := range c.NewLines {
			fmt.Fprintf(&b, "+ %4d  %s\n", c.NewStart+k, r.styles.Added.Render(line))
		}

		// Trailing context from the new text just after the change.
		after := c.NewStart - 1 + len(c.NewLines)
		end := after + contextLines
		if end > len(newLines) {
			end = len(newLines)
		}
		for n := after; n < end; n++ {
			fmt.Fprintf(&b, "  %4d  %s\n", n+1, r.styles.Context.Render(newLines[n]))
		}
	}
	return b.String()
}
