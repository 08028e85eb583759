package rest

import (
	"net/http"
)

// GetPing checks that the store can serve a read transaction.
//
// Request:
//
//	GET /ping
func (h *Handler) GetPing(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.textError(w, r, "store is not available", err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetHello greets the caller.
//
// Request:
//
//	GET /
func (h *Handler) GetHello(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello, World!"))
}
