package builtin

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cexll/termagent/pkg/security"
	"github.com/cexll/termagent/pkg/tool"
)

// MaxReadFileSize caps how much file content read_file will return.
const MaxReadFileSize = 10 << 20 // 10 MiB

// NewReadFile builds the read_file tool confined to the given sandbox.
func NewReadFile(sandbox *security.Sandbox) *tool.Definition {
	return &tool.Definition{
		Name:        "read_file",
		Description: "Read the contents of a file. Supports optional offset/limit for partial reads of large files.",
		Schema: &tool.JSONSchema{
			Type: "object",
			Properties: map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path to the file to read.",
				},
				"offset": map[string]any{
					"type":        "integer",
					"description": "1-based line number to start reading from.",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of lines to return.",
				},
			},
			Required: []string{"path"},
		},
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			path := stringArg(input, "path")
			if err := sandbox.ValidatePath(path); err != nil {
				return "", err
			}

			info, err := os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					return "", fmt.Errorf("file not found: %s", path)
				}
				return "", fmt.Errorf("stat %s: %w", path, err)
			}
			if info.IsDir() {
				return "", fmt.Errorf("%s is a directory, not a file (use list_dir instead)", path)
			}
			if info.Size() > MaxReadFileSize {
				return "", fmt.Errorf("file too large: %d bytes (max %d bytes)", info.Size(), MaxReadFileSize)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("read %s: %w", path, err)
			}

			content := string(data)
			if content == "" {
				return fmt.Sprintf("(empty file: %s)", path), nil
			}

			offset := intArg(input, "offset", 0)
			limit := intArg(input, "limit", 0)
			if offset <= 0 && limit <= 0 {
				return content, nil
			}

			lines := strings.Split(content, "\n")
			start := 0
			if offset > 0 {
				start = offset - 1
			}
			if start >= len(lines) {
				return "", fmt.Errorf("offset %d is past the end of the file (%d lines)", offset, len(lines))
			}
			end := len(lines)
			if limit > 0 && start+limit < end {
				end = start + limit
			}
			return strings.Join(lines[start:end], "\n"), nil
		},
	}
}
