package handler

import (
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/adscope/unified-ads-mcp/internal/api/handler/router"
	"github.com/adscope/unified-ads-mcp/internal/tools"
	"github.com/adscope/unified-ads-mcp/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Tools(registry *tools.Registry) []router.Route {
	return []router.Route{
		{
			Path:    "/tools",
			Method:  http.MethodGet,
			Handler: ListToolsHandler(registry),
		},
		{
			Path:    "/tools/:name",
			Method:  http.MethodPost,
			Handler: CallToolHandler(registry),
		},
	}
}

// ListToolsHandler returns the tool definitions for the protocol layer.
func ListToolsHandler(registry *tools.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(registry.List()); err != nil {
			logrus.WithError(err).Warn("error encoding tool list")
		}
	})
}

// CallToolHandler dispatches one tool invocation with a JSON argument
// object.
func CallToolHandler(registry *tools.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/tools/")
		if name == "" {
			apiErrors.WriteError(w, apiErrors.ErrInvalidCommand, "missing tool name", nil)
			return
		}

		args := make(map[string]any)
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidCommand, "invalid argument payload", nil)
				return
			}
		}

		result, err := registry.Call(r.Context(), name, args)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidCommand, err.Error(), nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"result": result}); err != nil {
			logrus.WithError(err).Warn("error encoding tool result")
		}
	})
}
