package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/toshio/canistorage/pkg/apperror"
)

type beginUploadRequest struct {
	Path      string `json:"path"`
	MimeType  string `json:"mimetype"`
	Overwrite bool   `json:"overwrite"`
}

// BeginUpload handles POST /uploads.
func (h *Handler) BeginUpload(w http.ResponseWriter, r *http.Request) {
	var req beginUploadRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.Store.Uploads.Begin(r.Context(), h.caller(r), req.Path, req.MimeType, req.Overwrite); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

type sendDataRequest struct {
	Path  string `json:"path"`
	Start uint64 `json:"start"`
	Data  string `json:"data"` // base64
}

type sendDataResponse struct {
	Size uint64 `json:"size"`
}

// SendData handles POST /uploads/data.
func (h *Handler) SendData(w http.ResponseWriter, r *http.Request) {
	var req sendDataRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeError(w, apperror.InvalidPath("data is not valid base64"))
		return
	}

	size, err := h.Store.Uploads.SendData(r.Context(), h.caller(r), req.Path, req.Start, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, sendDataResponse{Size: size})
}

type commitUploadRequest struct {
	Path   string `json:"path"`
	Size   uint64 `json:"size"`
	SHA256 string `json:"sha256,omitempty"` // base64, optional
}

// CommitUpload handles POST /uploads/commit.
func (h *Handler) CommitUpload(w http.ResponseWriter, r *http.Request) {
	var req commitUploadRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	var hash []byte
	if req.SHA256 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.SHA256)
		if err != nil {
			writeError(w, apperror.InvalidHash("sha256 is not valid base64"))
			return
		}
		hash = decoded
	}

	if err := h.Store.Uploads.Commit(r.Context(), h.caller(r), req.Path, req.Size, hash); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

type cancelUploadRequest struct {
	Path string `json:"path"`
}

// CancelUpload handles POST /uploads/cancel.
func (h *Handler) CancelUpload(w http.ResponseWriter, r *http.Request) {
	var req cancelUploadRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.Store.Uploads.Cancel(r.Context(), h.caller(r), req.Path); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}
