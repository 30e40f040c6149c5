package tool

// Validator validates tool input before execution. The registry installs a
// schema-backed default; SetValidator swaps in a stricter one.
type Validator interface {
	Validate(input map[string]any, schema *JSONSchema) error
}

// DefaultValidator delegates to the schema's own Check.
type DefaultValidator struct{}

// Validate ensures that input satisfies the provided schema.
func (DefaultValidator) Validate(input map[string]any, schema *JSONSchema) error {
	if input == nil {
		input = map[string]any{}
	}
	return schema.Check(input)
}
