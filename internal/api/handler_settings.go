package api

import (
	"encoding/json"
	"net/http"

	"github.com/vietddude/payroll/internal/settings"
)

// SettingsHandler handles per-user display settings.
type SettingsHandler struct {
	store settings.Store
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
		return
	}
	s, err := h.store.Load(r.Context(), identity.UserID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, CodeInternal, "failed to load settings")
		return
	}
	WriteJSON(w, http.StatusOK, s)
}

// Update handles PUT /api/v1/settings. The body is a partial; unset fields
// keep their stored values.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
		return
	}
	var partial settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON in request body")
		return
	}
	s, err := h.store.Save(r.Context(), identity.UserID, partial)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, CodeInternal, "failed to save settings")
		return
	}
	WriteJSON(w, http.StatusOK, s)
}
