package tool

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/cexll/termagent/pkg/model"
)

// ErrNotFound is returned when a lookup names an unregistered tool.
var ErrNotFound = errors.New("tool not found")

// Registry keeps the mapping between tool names and their definitions. The
// catalog is assembled during startup and treated as read-only afterwards.
type Registry struct {
	mu        sync.RWMutex
	tools     map[string]*Definition
	validator Validator
}

// NewRegistry creates a registry backed by the default validator.
func NewRegistry() *Registry {
	return &Registry{
		tools:     make(map[string]*Definition),
		validator: DefaultValidator{},
	}
}

// Register inserts a definition when its name is not in use.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return fmt.Errorf("tool is nil")
	}
	if def.Name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if def.Execute == nil {
		return fmt.Errorf("tool %s has no execute function", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool %s already registered", def.Name)
	}

	r.tools[def.Name] = def
	return nil
}

// Get fetches a definition by name.
func (r *Registry) Get(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.tools[name]
	if !exists {
		return nil, fmt.Errorf("tool %s: %w", name, ErrNotFound)
	}
	return def, nil
}

// List produces a name-sorted snapshot of all registered definitions.
func (r *Registry) List() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]*Definition, 0, len(r.tools))
	for _, def := range r.tools {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Specs returns the catalog in the shape sent to the backend on every turn.
func (r *Registry) Specs() []model.ToolSpec {
	defs := r.List()
	specs := make([]model.ToolSpec, 0, len(defs))
	for _, def := range defs {
		specs = append(specs, def.Spec())
	}
	return specs
}

// SetValidator swaps the validator instance used before execution.
func (r *Registry) SetValidator(v Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validator = v
}

// Validate checks input against the named tool's schema.
func (r *Registry) Validate(name string, input map[string]any) error {
	def, err := r.Get(name)
	if err != nil {
		return err
	}
	if def.Schema == nil {
		return nil
	}

	r.mu.RLock()
	validator := r.validator
	r.mu.RUnlock()

	if validator == nil {
		return nil
	}
	if err := validator.Validate(input, def.Schema); err != nil {
		return fmt.Errorf("tool %s validation failed: %w", name, err)
	}
	return nil
}
