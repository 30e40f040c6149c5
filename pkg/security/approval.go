package security

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Approver answers yes/no questions about pending destructive actions.
// Implementations may block on human input; callers are expected to
// serialize concurrent approval requests themselves.
type Approver interface {
	Approve(ctx context.Context, toolName, prompt string) (bool, error)
}

// LineApprover reads a y/n answer from a line-oriented stream, typically
// the operator's terminal.
type LineApprover struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewLineApprover builds an approver over the given streams.
func NewLineApprover(in io.Reader, out io.Writer) *LineApprover {
	return &LineApprover{in: bufio.NewReader(in), out: out}
}

// Approve prints the prompt and blocks for a single-line answer. Only "y"
// and "yes" (case-insensitive) count as approval; everything else,
// including EOF, declines.
func (a *LineApprover) Approve(ctx context.Context, toolName, prompt string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(a.out, "%s\n[%s] proceed? (y/n): ", prompt, toolName)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("read approval answer: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// StaticApprover always returns a fixed answer. Useful for tests and for
// non-interactive runs where edits are pre-declined.
type StaticApprover bool

// Approve implements Approver.
func (s StaticApprover) Approve(context.Context, string, string) (bool, error) {
	return bool(s), nil
}
