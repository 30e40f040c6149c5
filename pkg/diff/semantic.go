package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// SemanticEngine produces the same Change stream as GreedyEngine but uses a
// classical diff (sergi/go-diff with line-level reduction and semantic
// cleanup) instead of the bounded lookahead heuristic. Use it where an edit
// with a long insertion must not collapse into one oversized trailing change.
type SemanticEngine struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewSemanticEngine constructs a SemanticEngine with the timeout disabled so
// results are deterministic.
func NewSemanticEngine() *SemanticEngine {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return &SemanticEngine{dmp: dmp}
}

// Compare implements Engine.
func (e *SemanticEngine) Compare(oldText, newText string) []Change {
	a, b, lineArray := e.dmp.DiffLinesToChars(oldText, newText)
	diffs := e.dmp.DiffMain(a, b, false)
	diffs = e.dmp.DiffCleanupSemantic(diffs)
	diffs = e.dmp.DiffCharsToLines(diffs, lineArray)

	var changes []Change
	oldLine, newLine := 1, 1
	var pending *Change
	flush := func() {
		if pending != nil && (len(pending.OldLines) > 0 || len(pending.NewLines) > 0) {
			changes = append(changes, *pending)
		}
		pending = nil
	}

	for _, d := range diffs {
		lines := SplitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			oldLine += len(lines)
			newLine += len(lines)
		case diffmatchpatch.DiffDelete:
			if pending == nil {
				pending = &Change{OldStart: oldLine, NewStart: newLine}
			}
			pending.OldLines = append(pending.OldLines, lines...)
			oldLine += len(lines)
		case diffmatchpatch.DiffInsert:
			if pending == nil {
				pending = &Change{OldStart: oldLine, NewStart: newLine}
			}
			pending.NewLines = append(pending.NewLines, lines...)
			newLine += len(lines)
		}
	}
	flush()
	return changes
}
