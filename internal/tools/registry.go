// Package tools exposes the named tool surface. The registry dispatches
// calls by name; the protocol transport wrapping it lives outside this
// module and consumes List/Call only.
package tools

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Definition describes one tool to the protocol layer.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Handler executes one tool call. The string result is the tool's textual
// payload; errors surface as structured tool failures.
type Handler func(ctx context.Context, args map[string]any) (string, error)

type tool struct {
	definition Definition
	handler    Handler
}

// Registry holds the tool set in registration order.
type Registry struct {
	order []string
	tools map[string]tool
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]tool),
	}
}

func (r *Registry) Register(definition Definition, handler Handler) {
	if _, exists := r.tools[definition.Name]; !exists {
		r.order = append(r.order, definition.Name)
	}
	r.tools[definition.Name] = tool{definition: definition, handler: handler}
}

// List returns tool definitions in registration order.
func (r *Registry) List() []Definition {
	definitions := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		definitions = append(definitions, r.tools[name].definition)
	}
	return definitions
}

// Call dispatches a tool invocation by name. Legacy names without a
// platform prefix resolve against the social platform's tool set.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	entry, ok := r.tools[name]
	if !ok {
		if resolved, found := r.resolveLegacy(name); found {
			entry = resolved
		} else {
			return "", errors.Errorf("unknown tool: %s", name)
		}
	}

	logrus.WithField("tool", entry.definition.Name).Debug("tool call")
	return entry.handler(ctx, args)
}

// resolveLegacy maps bare admin tool names from before the platform-prefix
// convention, e.g. "list_ads" to "facebook_list_ads".
func (r *Registry) resolveLegacy(name string) (tool, bool) {
	if strings.Contains(name, "/") {
		return tool{}, false
	}

	entry, ok := r.tools["facebook_"+name]
	return entry, ok
}
