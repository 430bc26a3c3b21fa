package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func staticTool(name, payload string) (Definition, Handler) {
	return Definition{Name: name, Description: name},
		func(ctx context.Context, args map[string]any) (string, error) {
			return payload, nil
		}
}

func TestRegistryListPreservesRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	registry.Register(staticTool("beta", "b"))
	registry.Register(staticTool("alpha", "a"))
	registry.Register(staticTool("gamma", "g"))

	names := make([]string, 0, 3)
	for _, definition := range registry.List() {
		names = append(names, definition.Name)
	}
	assert.Equal(t, []string{"beta", "alpha", "gamma"}, names)
}

func TestRegistryReRegisterReplacesHandler(t *testing.T) {
	registry := NewRegistry()
	registry.Register(staticTool("alpha", "old"))
	registry.Register(staticTool("alpha", "new"))

	assert.Len(t, registry.List(), 1)

	out, err := registry.Call(context.Background(), "alpha", nil)
	assert.NoError(t, err)
	assert.Equal(t, "new", out)
}

func TestRegistryUnknownTool(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Call(context.Background(), "nope", nil)
	assert.EqualError(t, err, "unknown tool: nope")
}

func TestRegistryLegacyNameResolution(t *testing.T) {
	registry := NewRegistry()
	registry.Register(staticTool("facebook_list_ads", "ads"))

	out, err := registry.Call(context.Background(), "list_ads", nil)
	assert.NoError(t, err)
	assert.Equal(t, "ads", out)

	// Path-looking names never resolve.
	_, err = registry.Call(context.Background(), "facebook/list_ads", nil)
	assert.Error(t, err)
}
