package builtin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cexll/termagent/pkg/security"
	"github.com/cexll/termagent/pkg/tool"
)

// NewListDir builds the list_dir tool confined to the given sandbox.
func NewListDir(sandbox *security.Sandbox) *tool.Definition {
	return &tool.Definition{
		Name:        "list_dir",
		Description: "List the contents of a directory with entry types and sizes.",
		Schema: &tool.JSONSchema{
			Type: "object",
			Properties: map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Directory to list.",
				},
				"show_hidden": map[string]any{
					"type":        "boolean",
					"description": "Include dotfiles (default: false).",
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
					return "", fmt.Errorf("directory not found: %s", path)
				}
				return "", fmt.Errorf("stat %s: %w", path, err)
			}
			if !info.IsDir() {
				return "", fmt.Errorf("%s is a file, not a directory (use read_file instead)", path)
			}

			entries, err := os.ReadDir(path)
			if err != nil {
				return "", fmt.Errorf("list %s: %w", path, err)
			}

			showHidden := boolArg(input, "show_hidden")

			var b strings.Builder
			dirCount, fileCount := 0, 0
			var totalSize int64
			for _, entry := range entries {
				name := entry.Name()
				if !showHidden && strings.HasPrefix(name, ".") {
					continue
				}

				entryInfo, err := entry.Info()
				if err != nil {
					fmt.Fprintf(&b, "ERR:  %s (cannot stat)\n", name)
					continue
				}

				switch {
				case entryInfo.Mode()&os.ModeSymlink != 0:
					target, _ := os.Readlink(filepath.Join(path, name))
					fmt.Fprintf(&b, "LINK: %s -> %s\n", name, target)
				case entry.IsDir():
					dirCount++
					fmt.Fprintf(&b, "DIR:  %s/\n", name)
				default:
					fileCount++
					totalSize += entryInfo.Size()
					fmt.Fprintf(&b, "FILE: %s (%d bytes)\n", name, entryInfo.Size())
				}
			}

			fmt.Fprintf(&b, "total: %d dirs, %d files, %d bytes", dirCount, fileCount, totalSize)
			return b.String(), nil
		},
	}
}
