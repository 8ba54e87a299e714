// Package tools declares the externally callable operations and dispatches
// calls to them.
//
// A Tool couples a name and description with an argument struct and a
// handler. The argument struct is the single source of truth for the tool's
// interface: its input schema is reflected from it with invopop/jsonschema,
// incoming argument bags are decoded onto a copy of its defaults with
// mapstructure, and its validate tags are checked before the handler runs.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

// Descriptor is the public description of a tool, as returned by tools/list.
type Descriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Tool is one callable operation.
type Tool struct {
	Name        string
	Description string

	schema  json.RawMessage
	newArgs func() interface{}
	run     func(ctx context.Context, args interface{}) (interface{}, error)
}

// Descriptor returns the tool's public description.
func (t *Tool) Descriptor() Descriptor {
	return Descriptor{Name: t.Name, Description: t.Description, InputSchema: t.schema}
}

var reflector = &jsonschema.Reflector{
	DoNotReference:             true,
	ExpandedStruct:             true,
	RequiredFromJSONSchemaTags: true,
	AllowAdditionalProperties:  true,
}

// define builds a Tool whose arguments decode onto a copy of defaults.
func define[A any](name, description string, defaults A, run func(ctx context.Context, args *A) (interface{}, error)) *Tool {
	schema := reflector.Reflect(&defaults)
	schema.Version = ""
	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tools: schema for %s: %v", name, err))
	}

	return &Tool{
		Name:        name,
		Description: description,
		schema:      raw,
		newArgs: func() interface{} {
			args := defaults
			return &args
		},
		run: func(ctx context.Context, args interface{}) (interface{}, error) {
			return run(ctx, args.(*A))
		},
	}
}

// Registry holds the tools in registration order.
type Registry struct {
	tools  []*Tool
	byName map[string]*Tool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Tool)}
}

// Register adds tools. Registering a name twice panics.
func (r *Registry) Register(tools ...*Tool) {
	for _, t := range tools {
		if _, exists := r.byName[t.Name]; exists {
			panic(fmt.Sprintf("tools: %s registered twice", t.Name))
		}
		r.tools = append(r.tools, t)
		r.byName[t.Name] = t
	}
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Descriptors lists every tool in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Descriptor())
	}
	return out
}

// Names returns the registered tool names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for _, t := range r.tools {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
