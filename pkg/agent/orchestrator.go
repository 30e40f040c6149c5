// Package agent contains the conversation orchestrator: the state machine
// that turns operator input into backend calls, tool execution and bounded
// history.
package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cexll/termagent/pkg/model"
	"github.com/cexll/termagent/pkg/session"
	"github.com/cexll/termagent/pkg/tool"
)

// DefaultMaxToolTurns bounds how many supervisor rounds a single operator
// input may trigger before the turn is cut short.
const DefaultMaxToolTurns = 10

// State identifies the orchestrator's position in its run loop.
type State int

const (
	// StateIdle means the orchestrator waits for the next operator line.
	StateIdle State = iota
	// StateInferring means a backend call or tool batch is in flight.
	StateInferring
	// StateDraining means the history is being persisted before exit.
	StateDraining
)

// Options wires the orchestrator's collaborators.
type Options struct {
	Backend    model.Backend
	Registry   *tool.Registry
	Supervisor *tool.Supervisor
	Transcript *session.TranscriptWriter

	// Input is the shared line source; approval prompts read from the
	// same stream via the supervisor's approver.
	Input  io.Reader
	Output io.Writer
	Logger *zap.Logger

	SystemPrompt string
	// Prompt is printed before each input line; defaults to "> ".
	Prompt       string
	MaxToolTurns int
	HistoryLimit int
}

// Orchestrator owns the single active Conversation and drives the
// Idle / Inferring / Draining state machine.
type Orchestrator struct {
	backend    model.Backend
	registry   *tool.Registry
	supervisor *tool.Supervisor
	transcript *session.TranscriptWriter
	conv       *session.Conversation
	in         *bufio.Reader
	out        io.Writer
	log        *zap.Logger

	systemPrompt string
	prompt       string
	maxToolTurns int

	// state is read by State() from other goroutines (signal handler).
	state     atomic.Int32
	drainOnce sync.Once
}

// New validates the options and builds an orchestrator in Idle state.
func New(opts Options) (*Orchestrator, error) {
	if opts.Backend == nil {
		return nil, errors.New("agent: backend is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("agent: registry is required")
	}
	if opts.Supervisor == nil {
		return nil, errors.New("agent: supervisor is required")
	}
	if opts.Input == nil {
		return nil, errors.New("agent: input is required")
	}
	if opts.Output == nil {
		return nil, errors.New("agent: output is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxToolTurns <= 0 {
		opts.MaxToolTurns = DefaultMaxToolTurns
	}
	if opts.Prompt == "" {
		opts.Prompt = "> "
	}

	return &Orchestrator{
		backend:      opts.Backend,
		registry:     opts.Registry,
		supervisor:   opts.Supervisor,
		transcript:   opts.Transcript,
		conv:         session.NewConversation(opts.HistoryLimit),
		in:           bufio.NewReader(opts.Input),
		out:          opts.Output,
		log:          opts.Logger,
		systemPrompt: opts.SystemPrompt,
		prompt:       opts.Prompt,
		maxToolTurns: opts.MaxToolTurns,
	}, nil
}

// State reports the current loop state.
func (o *Orchestrator) State() State { return State(o.state.Load()) }

func (o *Orchestrator) setState(s State) { o.state.Store(int32(s)) }

// Run drives the REPL until exit, end of input, or context cancellation.
// The history is drained exactly once on every exit path.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer o.Drain()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		o.setState(StateIdle)
		fmt.Fprint(o.out, o.prompt)
		line, err := o.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(o.out)
				return nil
			}
			return fmt.Errorf("agent: read input: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if isExitCommand(input) {
			return nil
		}

		if err := o.handleInput(ctx, input); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(o.out, "error: %v\n", err)
			o.log.Error("turn failed", zap.Error(err))
		}
	}
}

func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return true
	}
	return false
}

// handleInput runs one full turn: append the user message, then alternate
// backend calls and tool batches until the backend produces a final answer
// or the tool-turn bound trips.
func (o *Orchestrator) handleInput(ctx context.Context, input string) error {
	o.setState(StateInferring)
	defer func() { o.setState(StateIdle) }()

	o.conv.Append(model.NewTextMessage(model.RoleUser, input))

	toolTurns := 0
	for {
		resp, err := o.backend.Complete(ctx, o.conv.Messages(), o.systemPrompt, o.registry.Specs())
		if err != nil {
			return fmt.Errorf("backend: %w", err)
		}

		requests := toolRequests(resp.Blocks)
		if !resp.WantsTools() || len(requests) == 0 {
			if text := blocksText(resp.Blocks); text != "" {
				fmt.Fprintln(o.out, text)
			}
			o.conv.Append(model.Message{Role: model.RoleAssistant, Blocks: resp.Blocks})
			return nil
		}

		toolTurns++
		if toolTurns > o.maxToolTurns {
			// The pending tool_use blocks are dropped rather than
			// appended, so the history never carries an unanswered
			// pair.
			fmt.Fprintf(o.out, "stopping after %d tool turns; ask again to continue\n", o.maxToolTurns)
			o.log.Warn("tool turn limit reached", zap.Int("limit", o.maxToolTurns))
			return nil
		}

		if text := blocksText(resp.Blocks); text != "" {
			fmt.Fprintln(o.out, text)
		}

		results := o.supervisor.ExecuteAll(ctx, requests)

		o.conv.Append(model.Message{Role: model.RoleAssistant, Blocks: resp.Blocks})
		o.conv.Append(resultsMessage(results))
	}
}

// Drain persists the conversation once; subsequent calls are no-ops.
func (o *Orchestrator) Drain() {
	o.drainOnce.Do(func() {
		o.setState(StateDraining)
		if o.transcript == nil || o.conv.Len() == 0 {
			return
		}
		path, err := o.transcript.Save(o.conv.Messages())
		if err != nil {
			fmt.Fprintf(o.out, "failed to save transcript: %v\n", err)
			o.log.Error("transcript save failed", zap.Error(err))
			return
		}
		fmt.Fprintf(o.out, "transcript saved to %s\n", path)
		o.log.Info("transcript saved", zap.String("path", path))
	})
}

// History exposes a snapshot of the conversation, mainly for tests.
func (o *Orchestrator) History() []model.Message {
	return o.conv.Messages()
}

func toolRequests(blocks []model.ContentBlock) []tool.Request {
	var requests []tool.Request
	for _, b := range blocks {
		if b.Type == model.BlockToolUse {
			requests = append(requests, tool.Request{ID: b.ID, Name: b.Name, Input: b.Input})
		}
	}
	return requests
}

func blocksText(blocks []model.ContentBlock) string {
	var parts []string
	for _, b := range blocks {
		if b.Type == model.BlockText && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func resultsMessage(results []tool.Result) model.Message {
	blocks := make([]model.ContentBlock, 0, len(results))
	for _, res := range results {
		blocks = append(blocks, model.ContentBlock{
			Type:      model.BlockToolResult,
			ToolUseID: res.ID,
			Content:   res.Content,
			IsError:   res.IsError,
		})
	}
	return model.Message{Role: model.RoleUser, Blocks: blocks}
}
