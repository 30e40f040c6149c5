package builtin

import (
	"context"
	"fmt"

	"github.com/cexll/termagent/pkg/datecalc"
	"github.com/cexll/termagent/pkg/tool"
)

// NewDateCalc builds the date_calc tool, a pure calculator over calendar
// dates in YYYY-MM-DD form.
func NewDateCalc() *tool.Definition {
	return &tool.Definition{
		Name: "date_calc",
		Description: "Calendar arithmetic on YYYY-MM-DD dates: add_days, add_months, " +
			"days_between (date to other), weekday.",
		Schema: &tool.JSONSchema{
			Type: "object",
			Properties: map[string]any{
				"operation": map[string]any{
					"type":        "string",
					"enum":        []any{"add_days", "add_months", "days_between", "weekday"},
					"description": "One of add_days, add_months, days_between, weekday.",
				},
				"date": map[string]any{
					"type":        "string",
					"description": "Base date in YYYY-MM-DD form.",
				},
				"other": map[string]any{
					"type":        "string",
					"description": "Second date for days_between.",
				},
				"amount": map[string]any{
					"type":        "integer",
					"description": "Signed count of days or months to add.",
				},
			},
			Required: []string{"operation", "date"},
		},
		Execute: func(ctx context.Context, input map[string]any) (string, error) {
			op := stringArg(input, "operation")
			date := stringArg(input, "date")

			switch op {
			case "add_days":
				result, err := datecalc.AddDays(date, intArg(input, "amount", 0))
				if err != nil {
					return "", err
				}
				return result, nil
			case "add_months":
				result, err := datecalc.AddMonths(date, intArg(input, "amount", 0))
				if err != nil {
					return "", err
				}
				return result, nil
			case "days_between":
				other := stringArg(input, "other")
				if other == "" {
					return "", fmt.Errorf("days_between requires the other field")
				}
				days, err := datecalc.DaysBetween(date, other)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d", days), nil
			case "weekday":
				day, err := datecalc.Weekday(date)
				if err != nil {
					return "", err
				}
				return day, nil
			default:
				return "", fmt.Errorf("unsupported operation %q", op)
			}
		},
	}
}
