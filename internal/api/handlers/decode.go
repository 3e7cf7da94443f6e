package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/toshio/canistorage/pkg/apperror"
)

// decodeJSONBody decodes r's JSON body into v, writing a 400 response and
// returning false on failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, apperror.InvalidPath("invalid request body: %v", err))
		return false
	}
	return true
}
