package tools

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDuplicateTool is returned by Register for a name already taken.
var ErrDuplicateTool = errors.New("tool name already registered")

// Local returns the built-in tool definitions in registration order.
func Local() []ToolDefinition {
	return []ToolDefinition{
		ReadFileDefinition,
		ListFilesDefinition,
		WriteFileDefinition,
		SearchFilesDefinition,
		FileInfoDefinition,
		RunTestsDefinition,
	}
}

// Registry is a name-keyed tool set. It is built once at startup and read
// from then on; it has no locking because the turn loop is strictly serial.
type Registry struct {
	defs   []ToolDefinition
	byName map[string]int
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]int{}}
}

// Register adds a tool, failing on an empty or duplicate name.
func (r *Registry) Register(def ToolDefinition) error {
	if def.Name == "" {
		return errors.New("tool name is empty")
	}
	if _, exists := r.byName[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, def.Name)
	}
	r.byName[def.Name] = len(r.defs)
	r.defs = append(r.defs, def)
	return nil
}

// RegisterAll registers defs in order, stopping at the first failure.
func (r *Registry) RegisterAll(defs ...ToolDefinition) error {
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Resolve looks a tool up by name.
func (r *Registry) Resolve(name string) (ToolDefinition, bool) {
	i, ok := r.byName[name]
	if !ok {
		return ToolDefinition{}, false
	}
	return r.defs[i], true
}

// Definitions returns the registered tools in registration order. Callers
// must not mutate the returned slice.
func (r *Registry) Definitions() []ToolDefinition {
	return r.defs
}

func (r *Registry) Len() int { return len(r.defs) }

// Invoke runs the named tool and never lets a failure escape: an unknown
// name, a handler error, and a handler panic all come back as result text
// with ok=false, so the caller can report the failure in-band and move on.
func (r *Registry) Invoke(name string, args json.RawMessage) (result string, ok bool) {
	def, found := r.Resolve(name)
	if !found {
		return fmt.Sprintf("Tool %s not found", name), false
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = fmt.Sprintf("Tool error: panic: %v", rec)
			ok = false
		}
	}()

	out, err := def.Function(args)
	if err != nil {
		return fmt.Sprintf("Tool error: %s", err.Error()), false
	}
	return out, true
}
