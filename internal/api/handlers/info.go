package handlers

import (
	"encoding/base64"
	"net/http"
)

type infoResponse struct {
	Size      uint64 `json:"size"`
	Creator   string `json:"creator"`
	CreatedAt uint64 `json:"created_at"`
	Updater   string `json:"updater"`
	UpdatedAt uint64 `json:"updated_at"`
	MimeType  string `json:"mimetype"`
	SHA256    string `json:"sha256,omitempty"`
}

// GetInfo handles GET /info.
func (h *Handler) GetInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.Store.GetInfo(r.Context(), h.caller(r), pathParam(r))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := infoResponse{
		Size:      info.Size,
		Creator:   info.Creator.String(),
		CreatedAt: info.CreatedAt,
		Updater:   info.Updater.String(),
		UpdatedAt: info.UpdatedAt,
		MimeType:  info.MimeType,
	}
	if info.SHA256 != nil {
		resp.SHA256 = base64.StdEncoding.EncodeToString(info.SHA256)
	}
	writeOK(w, resp)
}
