package handlers

import (
	"net/http"

	"github.com/toshio/canistorage/pkg/identity"
)

type permissionRequest struct {
	Path       string `json:"path"`
	Principal  string `json:"principal"`
	Manageable bool   `json:"manageable"`
	Readable   bool   `json:"readable"`
	Writable   bool   `json:"writable"`
}

// AddPermission handles POST /permissions.
func (h *Handler) AddPermission(w http.ResponseWriter, r *http.Request) {
	var req permissionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	err := h.Store.AddPermission(r.Context(), h.caller(r), identity.Principal(req.Principal), req.Path,
		req.Manageable, req.Readable, req.Writable)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

// RemovePermission handles DELETE /permissions.
func (h *Handler) RemovePermission(w http.ResponseWriter, r *http.Request) {
	var req permissionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	err := h.Store.RemovePermission(r.Context(), h.caller(r), identity.Principal(req.Principal), req.Path,
		req.Manageable, req.Readable, req.Writable)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

type hasPermissionResponse struct {
	Manageable bool `json:"manageable"`
	Readable   bool `json:"readable"`
	Writable   bool `json:"writable"`
}

// HasPermission handles GET /permissions.
func (h *Handler) HasPermission(w http.ResponseWriter, r *http.Request) {
	perm, err := h.Store.HasPermission(r.Context(), h.caller(r), pathParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, hasPermissionResponse{Manageable: perm.Manageable, Readable: perm.Readable, Writable: perm.Writable})
}
