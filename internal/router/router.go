// Package router assembles the HTTP routes and middleware.
package router

import (
	"net/http"

	"github.com/KretovDmitry/goalias/internal/api/rest"
	"github.com/KretovDmitry/goalias/internal/logger"
	"github.com/KretovDmitry/goalias/internal/middleware"
	"github.com/KretovDmitry/goalias/internal/middleware/accesslog"
	"github.com/KretovDmitry/goalias/internal/middleware/gzip"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// New returns the application router.
func New(h *rest.Handler, logger logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(accesslog.Handler(logger))
	r.Use(middleware.Unzip(logger))
	r.Use(gzip.Handler(gzip.DefaultMinContentLength))

	r.Get("/", h.GetHello)
	r.Get("/ping", h.GetPing)
	r.Post("/create", h.PostCreateAlias)
	r.Post("/api/shorten", h.PostShortenText)
	r.Get("/{alias}", h.GetRedirect)

	return r
}
