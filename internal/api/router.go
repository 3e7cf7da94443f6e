// Package api assembles the HTTP transport for the blob store: middleware
// stack, route table, and the handlers package's dependency wiring.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/toshio/canistorage/internal/api/handlers"
	apimiddleware "github.com/toshio/canistorage/internal/api/middleware"
	"github.com/toshio/canistorage/internal/logger"
	"github.com/toshio/canistorage/pkg/blobstore"
	"github.com/toshio/canistorage/pkg/identity"
)

// NewRouter builds the chi router exposing store's fifteen operations plus
// the version and tree diagnostics, authenticating callers via a bearer
// JWT signed with signingKey. maxBodyBytes bounds every request body,
// mirroring the original canister's own message-size ceiling on save/
// send_data payloads; pass 0 to leave requests unbounded.
//
// Middleware stack, applied in order:
//   - RequestID / RealIP, for request correlation
//   - requestLogger, a custom request logger via internal/logger
//   - Recoverer, to turn panics into 500s instead of crashes
//   - Timeout, to bound request handling
//   - maxBodySize, to bound request payload size
//   - Identity, to attach the caller principal from the Authorization header
func NewRouter(store *blobstore.Store, signingKey []byte, maxBodyBytes int64) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(maxBodySize(maxBodyBytes))
	r.Use(apimiddleware.Identity(signingKey))

	h := handlers.New(store, identity.ContextProvider{})

	r.Get("/version", h.GetVersion)

	r.Route("/files", func(r chi.Router) {
		r.Post("/", h.Save)
		r.Get("/", h.Load)
		r.Delete("/", h.Delete)
	})

	r.Route("/directories", func(r chi.Router) {
		r.Post("/", h.CreateDirectory)
		r.Get("/", h.ListFiles)
		r.Delete("/", h.DeleteDirectory)
	})

	r.Route("/uploads", func(r chi.Router) {
		r.Post("/", h.BeginUpload)
		r.Post("/data", h.SendData)
		r.Post("/commit", h.CommitUpload)
		r.Post("/cancel", h.CancelUpload)
	})

	r.Get("/info", h.GetInfo)

	r.Route("/permissions", func(r chi.Router) {
		r.Get("/", h.HasPermission)
		r.Post("/", h.AddPermission)
		r.Delete("/", h.RemovePermission)
	})

	r.Post("/init", h.InitCanistorage)

	r.Get("/diagnostics/tree", h.GetAllInfo)

	return r
}

// maxBodySize caps every request body at limitBytes using http.MaxBytesReader,
// so reading an oversized save or send_data payload fails once the limit is
// passed instead of buffering it in full; the handlers report that decode
// failure as a 400 INVALID_PATH error. limitBytes <= 0 disables the cap.
func maxBodySize(limitBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limitBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, limitBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs request start at DEBUG and completion at INFO,
// following the same fields as the rest of the service's structured logs.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("api request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("api request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}
