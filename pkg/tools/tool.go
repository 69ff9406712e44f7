package tools

import (
	"context"
	"fmt"
	"sort"
)

// Kind classifies a tool by whether invoking it changes the outside world.
// Pure tools run immediately; side-effecting tools become proposals that a
// human must approve first.
type Kind string

const (
	KindPure          Kind = "pure"
	KindSideEffecting Kind = "side_effecting"
)

// Tool is one callable capability. Params are flat string key/values; each
// tool documents the keys it reads and ignores the rest.
type Tool interface {
	Name() string
	Kind() Kind
	Description() string
	Invoke(ctx context.Context, params map[string]string) (string, error)
}

// Registry is the fixed set of tools available to the planner. It is built
// once at startup; an unknown or duplicate name there is a construction
// error, not a runtime surprise.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry(toolList ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(toolList))}
	for _, t := range toolList {
		if _, exists := r.tools[t.Name()]; exists {
			return nil, fmt.Errorf("duplicate tool name: %s", t.Name())
		}
		r.tools[t.Name()] = t
	}
	return r, nil
}

func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return t, nil
}

// Names returns the registered tool names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run invokes a tool by name.
func (r *Registry) Run(ctx context.Context, name string, params map[string]string) (string, error) {
	t, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return t.Invoke(ctx, params)
}

// Validate checks that every referenced name resolves. Callers run this at
// startup so a misconfigured plan table cannot fail mid-turn.
func (r *Registry) Validate(names []string) error {
	for _, name := range names {
		if _, ok := r.tools[name]; !ok {
			return fmt.Errorf("unknown tool: %s", name)
		}
	}
	return nil
}
