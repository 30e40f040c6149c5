package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/cexll/termagent/pkg/security"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestSupervisor(t *testing.T, approver security.Approver, defs ...*Definition) *Supervisor {
	t.Helper()
	reg := NewRegistry()
	for _, def := range defs {
		require.NoError(t, reg.Register(def))
	}
	return NewSupervisor(reg, approver, nil)
}

func TestExecuteAllUnknownTool(t *testing.T) {
	sup := newTestSupervisor(t, nil)

	results := sup.ExecuteAll(context.Background(), []Request{
		{ID: "call_1", Name: "no_such_tool"},
	})

	require.Len(t, results, 1)
	require.True(t, results[0].IsError)
	require.Contains(t, results[0].Content, "not found")
	require.Equal(t, "call_1", results[0].ID)
}

func TestExecuteAllValidationFailureSkipsExecute(t *testing.T) {
	called := false
	def := &Definition{
		Name:   "read_file",
		Schema: &JSONSchema{Type: "object", Required: []string{"path"}},
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			called = true
			return "", nil
		},
	}
	sup := newTestSupervisor(t, nil, def)

	results := sup.ExecuteAll(context.Background(), []Request{
		{ID: "call_1", Name: "read_file", Input: map[string]any{}},
	})

	require.True(t, results[0].IsError)
	require.Contains(t, results[0].Content, "missing required field")
	require.False(t, called)
}

func TestExecuteAllDeclinedApprovalSkipsExecute(t *testing.T) {
	called := false
	def := &Definition{
		Name:          "edit_file",
		NeedsApproval: func(input map[string]any) bool { return input["confirm"] == true },
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			called = true
			return "applied", nil
		},
	}
	sup := newTestSupervisor(t, security.StaticApprover(false), def)

	results := sup.ExecuteAll(context.Background(), []Request{
		{ID: "call_1", Name: "edit_file", Input: map[string]any{"confirm": true}},
	})

	require.True(t, results[0].IsError)
	require.Contains(t, results[0].Content, "declined")
	require.False(t, called)
}

func TestExecuteAllApprovalGrantedRunsExecute(t *testing.T) {
	def := &Definition{
		Name:          "edit_file",
		NeedsApproval: func(input map[string]any) bool { return input["confirm"] == true },
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			return "applied", nil
		},
	}
	sup := newTestSupervisor(t, security.StaticApprover(true), def)

	results := sup.ExecuteAll(context.Background(), []Request{
		{ID: "call_1", Name: "edit_file", Input: map[string]any{"confirm": true}},
	})

	require.False(t, results[0].IsError)
	require.Equal(t, "applied", results[0].Content)
}

func TestExecuteAllNoApprovalNeededWithoutConfirm(t *testing.T) {
	def := &Definition{
		Name:          "edit_file",
		NeedsApproval: func(input map[string]any) bool { return input["confirm"] == true },
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			return "preview", nil
		},
	}
	// No approver wired on purpose; preview calls must not consult one.
	sup := newTestSupervisor(t, nil, def)

	results := sup.ExecuteAll(context.Background(), []Request{
		{ID: "call_1", Name: "edit_file", Input: map[string]any{"confirm": false}},
	})

	require.False(t, results[0].IsError)
	require.Equal(t, "preview", results[0].Content)
}

func TestExecuteAllToolErrorBecomesErrorResult(t *testing.T) {
	def := &Definition{
		Name: "bash",
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			return "", errors.New("exit status 1")
		},
	}
	sup := newTestSupervisor(t, nil, def)

	results := sup.ExecuteAll(context.Background(), []Request{
		{ID: "call_1", Name: "bash"},
	})

	require.True(t, results[0].IsError)
	require.Contains(t, results[0].Content, "exit status 1")
}

func TestExecuteAllRecoversPanic(t *testing.T) {
	def := &Definition{
		Name: "bash",
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			panic("boom")
		},
	}
	sup := newTestSupervisor(t, nil, def)

	results := sup.ExecuteAll(context.Background(), []Request{
		{ID: "call_1", Name: "bash"},
	})

	require.True(t, results[0].IsError)
	require.Contains(t, results[0].Content, "panicked")
}

func TestExecuteAllTimeoutDiscardsSlowResult(t *testing.T) {
	slow := &Definition{
		Name: "slow",
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			select {
			case <-time.After(5 * time.Second):
				return "too late", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
	}
	fast := &Definition{
		Name: "fast",
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			return "done", nil
		},
	}
	sup := newTestSupervisor(t, nil, slow, fast)
	sup.SetTimeout(50 * time.Millisecond)

	results := sup.ExecuteAll(context.Background(), []Request{
		{ID: "call_1", Name: "fast"},
		{ID: "call_2", Name: "slow"},
		{ID: "call_3", Name: "fast"},
	})

	require.Len(t, results, 3)
	require.Equal(t, "done", results[0].Content)
	require.True(t, results[1].IsError)
	require.Contains(t, results[1].Content, "timed out")
	require.Equal(t, "done", results[2].Content)
}

func TestExecuteAllPreservesRequestOrder(t *testing.T) {
	def := &Definition{
		Name: "echo",
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			return input["value"].(string), nil
		},
	}
	sup := newTestSupervisor(t, nil, def)

	var requests []Request
	for i := 0; i < 8; i++ {
		requests = append(requests, Request{
			ID:    fmt.Sprintf("call_%d", i),
			Name:  "echo",
			Input: map[string]any{"value": fmt.Sprintf("v%d", i)},
		})
	}

	results := sup.ExecuteAll(context.Background(), requests)
	require.Len(t, results, 8)
	for i, res := range results {
		require.Equal(t, fmt.Sprintf("call_%d", i), res.ID)
		require.Equal(t, fmt.Sprintf("v%d", i), res.Content)
	}
}

func TestTruncateForDisplay(t *testing.T) {
	short := "hello"
	require.Equal(t, short, TruncateForDisplay(short))

	long := make([]byte, DisplayLimit+100)
	for i := range long {
		long[i] = 'x'
	}
	got := TruncateForDisplay(string(long))
	require.Contains(t, got, "truncated")
	require.Less(t, len(got), len(long))
}

func TestTruncateForDisplayKeepsRunesIntact(t *testing.T) {
	// Place a multi-byte rune straddling the cut point; the cut must back
	// off to the rune boundary instead of emitting a broken sequence.
	s := strings.Repeat("x", DisplayLimit-1) + strings.Repeat("é", 60)
	got := TruncateForDisplay(s)
	require.True(t, utf8.ValidString(got))
	require.Contains(t, got, "truncated")
	kept := strings.TrimSuffix(got, "\n... (truncated)")
	require.Equal(t, strings.Repeat("x", DisplayLimit-1), kept)
}
