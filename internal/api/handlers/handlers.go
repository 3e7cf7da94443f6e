// Package handlers implements the HTTP handlers exposing the blob store's
// fifteen external operations (plus the version and tree diagnostics) over
// JSON.
package handlers

import (
	"net/http"

	"github.com/toshio/canistorage/pkg/blobstore"
	"github.com/toshio/canistorage/pkg/identity"
)

// Handler wires HTTP requests to a blobstore.Store, extracting the caller
// principal that the identity middleware attached to the request context.
type Handler struct {
	Store    *blobstore.Store
	Identity identity.Provider
}

// New builds a Handler over store, resolving callers via provider.
func New(store *blobstore.Store, provider identity.Provider) *Handler {
	return &Handler{Store: store, Identity: provider}
}

func (h *Handler) caller(r *http.Request) identity.Principal {
	return h.Identity.Caller(r.Context())
}

func pathParam(r *http.Request) string {
	return r.URL.Query().Get("path")
}
