package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/toshio/canistorage/pkg/blobstore"
)

// InitCanistorage handles POST /init.
func (h *Handler) InitCanistorage(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.InitCanistorage(r.Context(), h.caller(r)); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

type versionResponse struct {
	Version string `json:"version"`
}

// GetVersion handles GET /version.
func (h *Handler) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeOK(w, versionResponse{Version: h.Store.GetVersion()})
}

type treeEntryResponse struct {
	Path     string              `json:"path"`
	Info     infoResponse        `json:"info"`
	Children []treeEntryResponse `json:"children,omitempty"`
}

// GetAllInfo handles GET /diagnostics/tree, a development-only recursive
// dump of the tree rooted at path.
func (h *Handler) GetAllInfo(w http.ResponseWriter, r *http.Request) {
	path := pathParam(r)
	if path == "" {
		path = "/"
	}
	tree, err := h.Store.GetAllInfo(r.Context(), h.caller(r), path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, toTreeEntryResponse(tree))
}

func toTreeEntryResponse(entry *blobstore.TreeEntry) treeEntryResponse {
	resp := treeEntryResponse{
		Path: entry.Path,
		Info: infoResponse{
			Size:      entry.Info.Size,
			Creator:   entry.Info.Creator.String(),
			CreatedAt: entry.Info.CreatedAt,
			Updater:   entry.Info.Updater.String(),
			UpdatedAt: entry.Info.UpdatedAt,
			MimeType:  entry.Info.MimeType,
		},
	}
	if entry.Info.SHA256 != nil {
		resp.Info.SHA256 = base64.StdEncoding.EncodeToString(entry.Info.SHA256)
	}
	for _, child := range entry.Children {
		resp.Children = append(resp.Children, toTreeEntryResponse(&child))
	}
	return resp
}
