package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/toshio/canistorage/pkg/apperror"
)

type saveRequest struct {
	Path      string `json:"path"`
	MimeType  string `json:"mimetype"`
	Data      string `json:"data"` // base64
	Overwrite bool   `json:"overwrite"`
}

// Save handles POST /files.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeError(w, apperror.InvalidPath("data is not valid base64"))
		return
	}

	if err := h.Store.Save(r.Context(), h.caller(r), req.Path, req.MimeType, data, req.Overwrite); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

type downloadResponse struct {
	Size         uint64 `json:"size"`
	DownloadedAt uint64 `json:"downloaded_at"`
	Chunk        string `json:"chunk"` // base64
	SHA256       string `json:"sha256,omitempty"`
}

// Load handles GET /files.
func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	startAt, err := strconv.ParseUint(r.URL.Query().Get("start_at"), 10, 64)
	if err != nil && r.URL.Query().Get("start_at") != "" {
		writeError(w, apperror.InvalidPath("start_at must be a non-negative integer"))
		return
	}

	dl, err := h.Store.Load(r.Context(), h.caller(r), pathParam(r), startAt)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := downloadResponse{
		Size:         dl.Size,
		DownloadedAt: dl.DownloadedAt,
		Chunk:        base64.StdEncoding.EncodeToString(dl.Chunk),
	}
	if dl.SHA256 != nil {
		resp.SHA256 = base64.StdEncoding.EncodeToString(dl.SHA256)
	}
	writeOK(w, resp)
}

// Delete handles DELETE /files.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), h.caller(r), pathParam(r)); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}
