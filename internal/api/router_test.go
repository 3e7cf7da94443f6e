package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/toshio/canistorage/pkg/blobstore"
	"github.com/toshio/canistorage/pkg/clock"
	"github.com/toshio/canistorage/pkg/volume/osvolume"
)

var testSigningKey = []byte("test-signing-key")

func newTestServer(t *testing.T) (http.Handler, func(principal string) string) {
	t.Helper()
	vol, err := osvolume.New(t.TempDir())
	require.NoError(t, err)

	store := blobstore.New(vol, clock.System{})
	handler := NewRouter(store, testSigningKey, 0)

	token := func(principal string) string {
		claims := jwt.MapClaims{"sub": principal, "exp": time.Now().Add(time.Hour).Unix()}
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := tok.SignedString(testSigningKey)
		require.NoError(t, err)
		return signed
	}
	return handler, token
}

func doJSON(t *testing.T, handler http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRouter_InitSaveLoadDeleteLifecycle(t *testing.T) {
	handler, token := newTestServer(t)
	owner := token("alice")

	w := doJSON(t, handler, http.MethodPost, "/init", owner, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	saveBody := map[string]any{
		"path":      "/hello.txt",
		"mimetype":  "text/plain",
		"data":      base64.StdEncoding.EncodeToString([]byte("hello world")),
		"overwrite": false,
	}
	w = doJSON(t, handler, http.MethodPost, "/files", owner, saveBody)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/files?path=/hello.txt&start_at=0", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var download struct {
		Size         uint64 `json:"size"`
		DownloadedAt uint64 `json:"downloaded_at"`
		Chunk        string `json:"chunk"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&download))
	chunk, err := base64.StdEncoding.DecodeString(download.Chunk)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(chunk))
	require.Equal(t, download.Size, download.DownloadedAt)

	w = doJSON(t, handler, http.MethodDelete, "/files?path=/hello.txt", owner, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/files?path=/hello.txt&start_at=0", owner, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_AnonymousCallerCannotInit(t *testing.T) {
	handler, _ := newTestServer(t)

	w := doJSON(t, handler, http.MethodPost, "/init", "", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_SaveWithoutPermissionIsForbidden(t *testing.T) {
	handler, token := newTestServer(t)
	owner := token("alice")
	stranger := token("mallory")

	w := doJSON(t, handler, http.MethodPost, "/init", owner, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	saveBody := map[string]any{
		"path":     "/secret.txt",
		"mimetype": "text/plain",
		"data":     base64.StdEncoding.EncodeToString([]byte("shh")),
	}
	w = doJSON(t, handler, http.MethodPost, "/files", stranger, saveBody)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_GetVersion(t *testing.T) {
	handler, _ := newTestServer(t)

	w := doJSON(t, handler, http.MethodGet, "/version", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Version string `json:"version"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, blobstore.ModuleName+" "+blobstore.Version, resp.Version)
}
