package handlers

import "net/http"

type createDirectoryRequest struct {
	Path string `json:"path"`
}

// CreateDirectory handles POST /directories.
func (h *Handler) CreateDirectory(w http.ResponseWriter, r *http.Request) {
	var req createDirectoryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.Store.CreateDirectory(r.Context(), h.caller(r), req.Path); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

// DeleteDirectory handles DELETE /directories. The recursive flag is read
// from the query string since DELETE bodies are unreliable across proxies.
func (h *Handler) DeleteDirectory(w http.ResponseWriter, r *http.Request) {
	recursively := r.URL.Query().Get("recursive") == "true"
	if err := h.Store.DeleteDirectory(r.Context(), h.caller(r), pathParam(r), recursively); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

// ListFiles handles GET /directories.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Store.List(r.Context(), h.caller(r), pathParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, entries)
}
