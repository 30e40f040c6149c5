// Command termagent is a terminal REPL that mediates between an operator,
// an Anthropic model backend, and a set of side-effecting tools.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/cexll/termagent/pkg/agent"
	"github.com/cexll/termagent/pkg/config"
	"github.com/cexll/termagent/pkg/diff"
	"github.com/cexll/termagent/pkg/mcp/adapter"
	"github.com/cexll/termagent/pkg/model/anthropic"
	"github.com/cexll/termagent/pkg/security"
	"github.com/cexll/termagent/pkg/session"
	"github.com/cexll/termagent/pkg/tool"
	"github.com/cexll/termagent/pkg/tool/builtin"
)

const defaultSystemPrompt = "You are a careful assistant operating inside the user's workspace. " +
	"Use the available tools to inspect and modify files, run commands, and answer date questions. " +
	"For file edits, request a preview first and only confirm once the diff looks right."

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "termagent:", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	backend, err := anthropic.New(cfg.APIKey, cfg.Model)
	if err != nil {
		return err
	}

	sandbox := security.NewSandbox(cfg.Workspace)
	engine := diff.NewGreedyEngine()
	renderer := diff.NewRenderer(diff.TerminalStyles())

	registry := tool.NewRegistry()
	builtins := []*tool.Definition{
		builtin.NewReadFile(sandbox),
		builtin.NewWriteFile(sandbox),
		builtin.NewEditFile(sandbox, engine, renderer),
		builtin.NewBash(cfg.Workspace),
		builtin.NewListDir(sandbox),
		builtin.NewCurrentTime(time.Now),
		builtin.NewDateCalc(),
	}
	for _, def := range builtins {
		if err := registry.Register(def); err != nil {
			return fmt.Errorf("register %s: %w", def.Name, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MCPServer != "" {
		source := adapter.NewSource(cfg.MCPServer)
		defer func() { _ = source.Close() }()
		defs, err := source.Definitions(ctx)
		if err != nil {
			logger.Warn("mcp server unavailable", zap.String("spec", cfg.MCPServer), zap.Error(err))
		}
		for _, def := range defs {
			if err := registry.Register(def); err != nil {
				logger.Warn("skipping mcp tool", zap.String("tool", def.Name), zap.Error(err))
			}
		}
	}

	// One shared line source: chat input and approval answers come from
	// the same stream.
	stdin := bufio.NewReader(os.Stdin)
	approver := security.NewLineApprover(stdin, os.Stdout)
	supervisor := tool.NewSupervisor(registry, approver, logger)

	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	orch, err := agent.New(agent.Options{
		Backend:      backend,
		Registry:     registry,
		Supervisor:   supervisor,
		Transcript:   session.NewTranscriptWriter(cfg.TranscriptDir),
		Input:        stdin,
		Output:       os.Stdout,
		Logger:       logger,
		SystemPrompt: systemPrompt,
		Prompt:       lipgloss.NewStyle().Bold(true).Render(">") + " ",
	})
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range sigCh {
			// Drain is idempotent; repeated signals are no-ops.
			orch.Drain()
			cancel()
			os.Exit(0)
		}
	}()

	fmt.Printf("termagent (%s) - type 'exit' or 'quit' to leave\n", cfg.Model)
	return orch.Run(ctx)
}

func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}
