package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/cexll/termagent/pkg/tool"
)

// NewCurrentTime builds the current_time tool. The clock is injectable so
// tests can pin the reported instant.
func NewCurrentTime(now func() time.Time) *tool.Definition {
	if now == nil {
		now = time.Now
	}
	return &tool.Definition{
		Name:        "current_time",
		Description: "Report the current date and time, optionally in a named timezone.",
		Schema: &tool.JSONSchema{
			Type: "object",
			Properties: map[string]any{
				"timezone": map[string]any{
					"type":        "string",
					"description": "IANA timezone name such as Europe/Berlin (default: local time).",
				},
			},
		},
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			t := now()
			if tz := stringArg(input, "timezone"); tz != "" {
				loc, err := time.LoadLocation(tz)
				if err != nil {
					return "", fmt.Errorf("unknown timezone %q: %w", tz, err)
				}
				t = t.In(loc)
			}
			return t.Format(time.RFC3339), nil
		},
	}
}
