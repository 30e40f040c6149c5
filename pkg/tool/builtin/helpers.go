// Package builtin provides the tools registered by default: file access,
// shell execution, directory listing and date/time helpers.
package builtin

import (
	"encoding/json"
	"fmt"
	"strings"
)

func stringArg(input map[string]any, key string) string {
	if input == nil {
		return ""
	}
	if s, ok := input[key].(string); ok {
		return s
	}
	return ""
}

func intArg(input map[string]any, key string, fallback int) int {
	if input == nil {
		return fallback
	}
	switch v := input[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return fallback
}

func boolArg(input map[string]any, key string) bool {
	if input == nil {
		return false
	}
	b, _ := input[key].(bool)
	return b
}

// occurrenceLines reports the 1-based line number of every occurrence of
// needle in content.
func occurrenceLines(content, needle string) []int {
	var lines []int
	offset := 0
	for {
		idx := strings.Index(content[offset:], needle)
		if idx < 0 {
			return lines
		}
		abs := offset + idx
		lines = append(lines, strings.Count(content[:abs], "\n")+1)
		offset = abs + len(needle)
		if offset >= len(content) {
			return lines
		}
	}
}

func formatLineNums(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
