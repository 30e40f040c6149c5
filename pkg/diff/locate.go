package diff

import (
	"errors"
	"fmt"
	"strings"
)

// Location identifies the line range a marker occupies in a text, with a
// short context snippet for display.
type Location struct {
	StartLine int
	EndLine   int
	Snippet   string
}

var errEmptyMarker = errors.New("diff: marker is empty")

// Locate reports the 1-based line range of the first occurrence of marker in
// finalText. It is used after an edit commits to tell the caller where the
// new content landed.
func Locate(finalText, marker string) (Location, error) {
	if marker == "" {
		return Location{}, errEmptyMarker
	}
	idx := strings.Index(finalText, marker)
	if idx < 0 {
		return Location{}, fmt.Errorf("diff: marker not found in text")
	}

	start := strings.Count(finalText[:idx], "\n") + 1
	// A trailing newline terminates the last line rather than opening a
	// new one.
	end := start + strings.Count(strings.TrimSuffix(marker, "\n"), "\n")

	lines := SplitLines(finalText)
	snipStart := start - 2
	if snipStart < 1 {
		snipStart = 1
	}
	snipEnd := end + 1
	if snipEnd > len(lines) {
		snipEnd = len(lines)
	}
	var snippet []string
	for n := snipStart; n <= snipEnd; n++ {
		snippet = append(snippet, fmt.Sprintf("%d: %s", n, lines[n-1]))
	}

	return Location{
		StartLine: start,
		EndLine:   end,
		Snippet:   strings.Join(snippet, "\n"),
	}, nil
}
