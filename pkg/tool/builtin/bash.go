package builtin

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/cexll/termagent/pkg/security"
	"github.com/cexll/termagent/pkg/tool"
)

// MaxCommandOutput caps combined stdout+stderr returned by the bash tool.
const MaxCommandOutput = 64 << 10 // 64 KiB

// NewBash builds the bash tool. Commands run under /bin/sh -c in workdir and
// are screened against the destructive-command deny list before spawning.
// The supervisor's per-call timeout propagates through ctx and kills the
// process on expiry.
func NewBash(workdir string) *tool.Definition {
	return &tool.Definition{
		Name:        "bash",
		Description: "Execute a shell command and return its combined output. Destructive commands are rejected.",
		Schema: &tool.JSONSchema{
			Type: "object",
			Properties: map[string]any{
				"command": map[string]any{
					"type":        "string",
					"description": "Shell command to execute.",
				},
			},
			Required: []string{"command"},
		},
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			command := stringArg(input, "command")
			if strings.TrimSpace(command) == "" {
				return "", fmt.Errorf("command must not be empty")
			}

			if blocked, pattern := security.BlockedCommand(command); blocked {
				return "", fmt.Errorf("command blocked by safety pattern %s", pattern)
			}

			cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
			cmd.Dir = workdir
			out, err := cmd.CombinedOutput()

			output := string(out)
			if len(output) > MaxCommandOutput {
				output = output[:MaxCommandOutput] + "\n... (output truncated)"
			}

			if err != nil {
				if ctx.Err() != nil {
					return "", fmt.Errorf("command cancelled: %w", ctx.Err())
				}
				if output == "" {
					return "", fmt.Errorf("command failed: %w", err)
				}
				return "", fmt.Errorf("command failed: %w\n%s", err, output)
			}
			if output == "" {
				return "(no output)", nil
			}
			return output, nil
		},
	}
}
