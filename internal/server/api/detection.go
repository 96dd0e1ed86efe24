package api

import (
	"encoding/json"
	"net/http"
)

// DetectionSwitch turns gesture detection on and off.
type DetectionSwitch interface {
	IsEnabled() bool
	SetEnabled(enabled bool) error
}

// DetectionHandler exposes the detection switch at /api/detection.
type DetectionHandler struct {
	detection DetectionSwitch
}

// NewDetectionHandler creates a DetectionHandler.
func NewDetectionHandler(d DetectionSwitch) *DetectionHandler {
	return &DetectionHandler{detection: d}
}

type detectionState struct {
	Enabled *bool `json:"enabled"`
}

// ServeHTTP handles GET and PUT with a body of {"enabled": bool}.
func (h *DetectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req detectionState
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		if err := h.detection.SetEnabled(*req.Enabled); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update detection")
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	enabled := h.detection.IsEnabled()
	writeJSON(w, http.StatusOK, detectionState{Enabled: &enabled})
}
