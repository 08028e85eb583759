// Package accesslog logs every request served by the router.
package accesslog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/KretovDmitry/goalias/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader carries the request ID back to the client.
const RequestIDHeader = "X-Request-ID"

// Handler returns a middleware that puts the request and correlation IDs
// into the request context and logs one entry per request once it is served.
// Server errors and panics are logged at warn level, the rest at info.
func Handler(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := logger.WithRequest(r.Context(), r)
			if id, ok := logger.RequestID(ctx); ok {
				w.Header().Set(RequestIDHeader, id)
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// served stays false when next panics; Recoverer answers afterwards.
			served := false
			defer func() {
				status := ww.Status()
				if status == 0 && served {
					status = http.StatusOK
				}
				entry := log.With(ctx,
					"method", r.Method,
					"path", r.URL.Path,
					"remote", r.RemoteAddr,
					"status", status,
					"bytes", ww.BytesWritten(),
					"elapsed", time.Since(start),
				)
				if !served || status >= http.StatusInternalServerError {
					entry.Warnf("%s %s: %s", r.Method, r.URL.Path, statusLabel(status))
					return
				}
				entry.Infof("%s %s: %s", r.Method, r.URL.Path, statusLabel(status))
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
			served = true
		})
	}
}

// statusLabel renders the status with its class, e.g. "404 Client Error".
func statusLabel(status int) string {
	var class string
	switch status / 100 {
	case 1, 2:
		class = "OK"
	case 3:
		class = "Redirect"
	case 4:
		class = "Client Error"
	case 5:
		class = "Server Error"
	default:
		class = "Unknown"
	}
	return strconv.Itoa(status) + " " + class
}
