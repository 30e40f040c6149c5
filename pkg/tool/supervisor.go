package tool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cexll/termagent/pkg/security"
)

const (
	// DefaultTimeout bounds every single tool invocation.
	DefaultTimeout = 30 * time.Second

	// DisplayLimit caps how much result content is echoed to the console.
	// History always receives the full value.
	DisplayLimit = 2000
)

// Supervisor executes batches of backend-requested invocations. Calls run
// concurrently, approvals are serialized so the operator answers one
// question at a time, and every failure mode is folded into an error Result
// rather than propagated.
type Supervisor struct {
	registry  *Registry
	approver  security.Approver
	timeout   time.Duration
	log       *zap.Logger
	approveMu sync.Mutex
}

// NewSupervisor wires a supervisor over the given catalog. A nil logger is
// replaced with a no-op one.
func NewSupervisor(registry *Registry, approver security.Approver, log *zap.Logger) *Supervisor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Supervisor{
		registry: registry,
		approver: approver,
		timeout:  DefaultTimeout,
		log:      log,
	}
}

// SetTimeout overrides the per-call timeout. Intended for tests.
func (s *Supervisor) SetTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// ExecuteAll runs every request and returns one Result per request, in
// request order. It never returns an error; failures surface as error
// Results so the orchestration loop keeps running.
func (s *Supervisor) ExecuteAll(ctx context.Context, requests []Request) []Result {
	results := make([]Result, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		s.log.Info("dispatching tool", zap.String("id", req.ID), zap.String("tool", req.Name))
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			results[i] = s.executeOne(ctx, req)
		}(i, req)
	}
	wg.Wait()

	for _, res := range results {
		s.log.Info("tool result",
			zap.String("id", res.ID),
			zap.Bool("error", res.IsError),
			zap.String("content", TruncateForDisplay(res.Content)))
	}
	return results
}

func (s *Supervisor) executeOne(ctx context.Context, req Request) Result {
	def, err := s.registry.Get(req.Name)
	if err != nil {
		return errorResult(req.ID, err)
	}

	if err := s.registry.Validate(req.Name, req.Input); err != nil {
		return errorResult(req.ID, err)
	}

	if def.NeedsApproval != nil && def.NeedsApproval(req.Input) {
		ok, err := s.requestApproval(ctx, def, req)
		if err != nil {
			return errorResult(req.ID, fmt.Errorf("approval for %s failed: %w", req.Name, err))
		}
		if !ok {
			return errorResult(req.ID, fmt.Errorf("operator declined %s invocation", req.Name))
		}
	}

	return s.invoke(ctx, def, req)
}

func (s *Supervisor) requestApproval(ctx context.Context, def *Definition, req Request) (bool, error) {
	if s.approver == nil {
		return false, errors.New("no approver configured")
	}

	prompt := fmt.Sprintf("allow %s?", req.Name)
	if def.Prompt != nil {
		prompt = def.Prompt(req.Input)
	}

	s.approveMu.Lock()
	defer s.approveMu.Unlock()
	return s.approver.Approve(ctx, req.Name, prompt)
}

type callOutcome struct {
	output string
	err    error
}

func (s *Supervisor) invoke(ctx context.Context, def *Definition, req Request) Result {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Buffered so a straggler that outlives the deadline can still finish
	// and exit; its outcome is simply discarded.
	ch := make(chan callOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- callOutcome{err: fmt.Errorf("tool %s panicked: %v", req.Name, r)}
			}
		}()
		output, err := def.Execute(callCtx, req.Input)
		ch <- callOutcome{output: output, err: err}
	}()

	select {
	case outcome := <-ch:
		if outcome.err != nil {
			return errorResult(req.ID, fmt.Errorf("tool %s failed: %w", req.Name, outcome.err))
		}
		return Result{ID: req.ID, Content: outcome.output}
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return errorResult(req.ID, fmt.Errorf("tool %s timed out after %s", req.Name, s.timeout))
		}
		return errorResult(req.ID, fmt.Errorf("tool %s cancelled: %w", req.Name, callCtx.Err()))
	}
}

func errorResult(id string, err error) Result {
	return Result{ID: id, Content: err.Error(), IsError: true}
}

// TruncateForDisplay caps s at the console display limit, backing off to a
// rune boundary so multi-byte characters are never split.
func TruncateForDisplay(s string) string {
	if len(s) <= DisplayLimit {
		return s
	}
	cut := DisplayLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n... (truncated)"
}
