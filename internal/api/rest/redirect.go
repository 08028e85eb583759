package rest

import (
	"net/http"

	"github.com/KretovDmitry/goalias/internal/errs"
	"github.com/go-chi/chi/v5"
)

// GetRedirect sends the client to the destination of the alias.
//
// Request:
//
//	GET /{alias}
//
// Response:
//
//	HTTP/1.1 307 Temporary Redirect
//	Location: <destination>
//
// An unknown alias redirects to the fallback URL if one is configured
// and gives 404 Not Found otherwise.
func (h *Handler) GetRedirect(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	destination, found, err := h.service.Resolve(r.Context(), alias)
	if err != nil {
		h.textError(w, r, "failed to resolve alias "+alias, err, http.StatusInternalServerError)
		return
	}

	if !found {
		if h.config.Server.FallbackURL == "" {
			h.textError(w, r, alias, errs.ErrNotFound, http.StatusNotFound)
			return
		}
		destination = h.config.Server.FallbackURL
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Location", destination)
	w.WriteHeader(http.StatusTemporaryRedirect)
}
