package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cexll/termagent/pkg/security"
	"github.com/cexll/termagent/pkg/tool"
)

// NewWriteFile builds the write_file tool confined to the given sandbox.
// Parent directories are created as needed.
func NewWriteFile(sandbox *security.Sandbox) *tool.Definition {
	return &tool.Definition{
		Name:        "write_file",
		Description: "Create or overwrite a file with the given content. Parent directories are created automatically.",
		Schema: &tool.JSONSchema{
			Type: "object",
			Properties: map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path of the file to write.",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "Full file contents to write.",
				},
			},
			Required: []string{"path", "content"},
		},
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			path := stringArg(input, "path")
			if err := sandbox.ValidatePath(path); err != nil {
				return "", err
			}
			content := stringArg(input, "content")

			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return "", fmt.Errorf("create parent directory: %w", err)
				}
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return "", fmt.Errorf("write %s: %w", path, err)
			}
			return fmt.Sprintf("wrote %d bytes to %s", len(content), path), nil
		},
	}
}
