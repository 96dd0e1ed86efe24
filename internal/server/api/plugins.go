package api

import (
	"net/http"

	"github.com/ayusman/aero/internal/plugin"
)

// PluginRegistry lists installed plugins and rescans the plugin directory.
type PluginRegistry interface {
	List() []*plugin.Plugin
	Discover() error
}

// PluginHandler serves /api/plugins.
type PluginHandler struct {
	registry PluginRegistry
}

// NewPluginHandler creates a PluginHandler.
func NewPluginHandler(r PluginRegistry) *PluginHandler {
	return &PluginHandler{registry: r}
}

type pluginResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Actions     []string `json:"actions"`
}

type listPluginsResponse struct {
	Plugins []pluginResponse `json:"plugins"`
}

// ServeHTTP lists plugins on GET. POST rescans the plugin directory first.
func (h *PluginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		if err := h.registry.Discover(); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to scan plugins")
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	plugins := h.registry.List()
	response := listPluginsResponse{Plugins: make([]pluginResponse, 0, len(plugins))}
	for _, p := range plugins {
		actions := p.Manifest.Actions
		if actions == nil {
			actions = []string{}
		}
		response.Plugins = append(response.Plugins, pluginResponse{
			Name:        p.Manifest.Name,
			Version:     p.Manifest.Version,
			Description: p.Manifest.Description,
			Actions:     actions,
		})
	}
	writeJSON(w, http.StatusOK, response)
}
