// Package diff computes line-level edit scripts between two text versions
// and renders them as annotated patches for terminal review.
package diff

import "strings"

const (
	// maxLookahead bounds the resynchronization scan. Edits whose changed
	// region spans more lines than this collapse into a single trailing
	// change covering the remainder of both texts.
	maxLookahead = 49

	// confirmWindow is the number of consecutive matching lines required
	// on both sides before a resynchronization point is accepted.
	confirmWindow = 3
)

// Change describes one contiguous changed region between two texts.
// Line numbers are 1-based positions in the respective original text.
type Change struct {
	OldStart int
	NewStart int
	OldLines []string
	NewLines []string
}

// Engine computes an ordered sequence of Changes between two texts.
// Implementations trade exactness for speed; callers must not rely on a
// minimal edit script.
type Engine interface {
	Compare(oldText, newText string) []Change
}

// GreedyEngine walks both texts in lockstep and, on mismatch, resynchronizes
// by scanning an increasing lookahead window over all splits between lines
// consumed from the old and the new side. The first split whose following
// confirmWindow lines match on both sides wins. When no split matches within
// maxLookahead, the remainder of both texts becomes one final Change.
type GreedyEngine struct{}

// NewGreedyEngine returns the default Engine.
func NewGreedyEngine() *GreedyEngine { return &GreedyEngine{} }

// Compare implements Engine.
func (GreedyEngine) Compare(oldText, newText string) []Change {
	oldLines := SplitLines(oldText)
	newLines := SplitLines(newText)

	var changes []Change
	i, j := 0, 0
	for i < len(oldLines) && j < len(newLines) {
		if oldLines[i] == newLines[j] {
			i++
			j++
			continue
		}

		di, dj, ok := resync(oldLines, newLines, i, j)
		if !ok {
			changes = append(changes, Change{
				OldStart: i + 1,
				NewStart: j + 1,
				OldLines: oldLines[i:],
				NewLines: newLines[j:],
			})
			return changes
		}
		changes = append(changes, Change{
			OldStart: i + 1,
			NewStart: j + 1,
			OldLines: oldLines[i : i+di],
			NewLines: newLines[j : j+dj],
		})
		i += di
		j += dj
	}

	if i < len(oldLines) || j < len(newLines) {
		changes = append(changes, Change{
			OldStart: i + 1,
			NewStart: j + 1,
			OldLines: oldLines[i:],
			NewLines: newLines[j:],
		})
	}
	return changes
}

// resync searches for the nearest split (di lines consumed from old, dj from
// new) after which both texts line up again. Returns ok=false when the
// lookahead bound is exhausted.
func resync(oldLines, newLines []string, i, j int) (di, dj int, ok bool) {
	for look := 1; look <= maxLookahead; look++ {
		for di = 0; di <= look; di++ {
			dj = look - di
			if i+di > len(oldLines) || j+dj > len(newLines) {
				continue
			}
			if confirmed(oldLines, newLines, i+di, j+dj) {
				return di, dj, true
			}
		}
	}
	return 0, 0, false
}

// confirmed reports whether the next confirmWindow lines starting at
// oldLines[a] and newLines[b] are equal. Both sides running out together
// counts as a match; one side running out before the other does not.
func confirmed(oldLines, newLines []string, a, b int) bool {
	for k := 0; k < confirmWindow; k++ {
		oa, ob := a+k, b+k
		oldDone := oa >= len(oldLines)
		newDone := ob >= len(newLines)
		if oldDone != newDone {
			return false
		}
		if oldDone {
			return true
		}
		if oldLines[oa] != newLines[ob] {
			return false
		}
	}
	return true
}

// SplitLines splits text on newlines. A single trailing newline does not
// produce a phantom empty line; an empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
