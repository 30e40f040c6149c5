package builtin

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cexll/termagent/pkg/diff"
	"github.com/cexll/termagent/pkg/security"
	"github.com/cexll/termagent/pkg/tool"
)

// NewEditFile builds the edit_file tool. Without confirm the tool renders a
// reviewable diff and writes nothing; with confirm=true the supervisor
// obtains operator approval and the edit is committed, preserving the file
// mode. Disk content is re-read on every call, so a stale preview can never
// be applied blindly.
func NewEditFile(sandbox *security.Sandbox, engine diff.Engine, renderer *diff.Renderer) *tool.Definition {
	return &tool.Definition{
		Name: "edit_file",
		Description: "Replace one exact occurrence of old_string with new_string in a file. " +
			"Call without confirm to preview the diff; call with confirm=true to apply it.",
		Schema: &tool.JSONSchema{
			Type: "object",
			Properties: map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path of the file to edit.",
				},
				"old_string": map[string]any{
					"type":        "string",
					"description": "Exact text to replace. Must occur exactly once.",
				},
				"new_string": map[string]any{
					"type":        "string",
					"description": "Replacement text.",
				},
				"confirm": map[string]any{
					"type":        "boolean",
					"description": "Apply the edit. When false or absent, only a preview diff is returned.",
				},
			},
			Required: []string{"path", "old_string", "new_string"},
		},
		NeedsApproval: func(input map[string]any) bool {
			return boolArg(input, "confirm")
		},
		Prompt: func(input map[string]any) string {
			path := stringArg(input, "path")
			_, _, patch, err := prepareEdit(sandbox, engine, renderer, input)
			if err != nil {
				return fmt.Sprintf("edit %s (cannot render diff: %v)", path, err)
			}
			return fmt.Sprintf("apply this edit to %s?\n%s", path, patch)
		},
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			path := stringArg(input, "path")
			mode, newContent, patch, err := prepareEdit(sandbox, engine, renderer, input)
			if err != nil {
				return "", err
			}

			if !boolArg(input, "confirm") {
				return fmt.Sprintf("preview of %s (no changes written; repeat with confirm=true to apply):\n%s",
					path, patch), nil
			}

			if err := os.WriteFile(path, []byte(newContent), mode); err != nil {
				return "", fmt.Errorf("write %s: %w", path, err)
			}

			report := fmt.Sprintf("edited %s: wrote %d bytes", path, len(newContent))
			newStr := stringArg(input, "new_string")
			if newStr != "" {
				if loc, err := diff.Locate(newContent, newStr); err == nil {
					report += fmt.Sprintf("\nchanged region now at lines %d-%d:\n%s",
						loc.StartLine, loc.EndLine, loc.Snippet)
				}
			}
			return report, nil
		},
	}
}

// prepareEdit validates the request against current disk state and computes
// the replacement plus its rendered diff.
func prepareEdit(sandbox *security.Sandbox, engine diff.Engine, renderer *diff.Renderer, input map[string]any) (os.FileMode, string, string, error) {
	path := stringArg(input, "path")
	if err := sandbox.ValidatePath(path); err != nil {
		return 0, "", "", err
	}
	oldStr := stringArg(input, "old_string")
	if oldStr == "" {
		return 0, "", "", fmt.Errorf("old_string must not be empty")
	}
	newStr := stringArg(input, "new_string")

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, "", "", fmt.Errorf("file not found: %s", path)
		}
		return 0, "", "", fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, "", "", fmt.Errorf("read %s: %w", path, err)
	}
	content := string(data)

	count := strings.Count(content, oldStr)
	if count == 0 {
		lines := strings.Split(content, "\n")
		previewLen := len(lines)
		if previewLen > 5 {
			previewLen = 5
		}
		return 0, "", "", fmt.Errorf("old_string not found in file. File starts with:\n%s",
			strings.Join(lines[:previewLen], "\n"))
	}
	if count > 1 {
		return 0, "", "", fmt.Errorf("old_string found %d times (at lines %s); provide more context to make it unique",
			count, formatLineNums(occurrenceLines(content, oldStr)))
	}

	newContent := strings.Replace(content, oldStr, newStr, 1)
	patch := renderer.Render(engine.Compare(content, newContent), content, newContent, path)
	return info.Mode(), newContent, patch, nil
}
