package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/toshio/canistorage/pkg/apperror"
)

// errorBody is the wire shape of the External Interfaces table's Error
// type: {code (u32), message (string)}.
type errorBody struct {
	Code    apperror.Code `json:"code"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeOK writes a 200 response wrapping data, or a 204 if data is nil.
func writeOK(w http.ResponseWriter, data any) {
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// writeError translates an apperror.Code into an HTTP status and writes
// the {code, message} error body every operation can fail with.
func writeError(w http.ResponseWriter, err error) {
	code := apperror.CodeOf(err)
	writeJSON(w, statusForCode(code), errorBody{Code: code, Message: err.Error()})
}

func statusForCode(code apperror.Code) int {
	switch code {
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeAlreadyExists, apperror.CodeAlreadyInitialized:
		return http.StatusConflict
	case apperror.CodeInvalidPath, apperror.CodeInvalidMimetype,
		apperror.CodeInvalidSequence, apperror.CodeInvalidSize, apperror.CodeInvalidHash:
		return http.StatusBadRequest
	case apperror.CodePermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
