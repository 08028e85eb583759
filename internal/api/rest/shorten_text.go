package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/KretovDmitry/goalias/internal/errs"
	"github.com/asaskevich/govalidator"
)

// PostShortenText records the URL under a generated alias.
//
// Request:
//
//	POST /api/shorten
//	Content-Type: text/plain
//	https://go.dev/
//
// Response:
//
//	HTTP/1.1 201 Created
//	Content-Type: text/plain; charset=utf-8
//	http://<return address>/<alias>
//
// A URL that is already shortened gives 409 Conflict with the same link.
func (h *Handler) PostShortenText(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); mediaType(ct) != "text/plain" {
		h.textError(w, r, "bad content-type: "+ct, errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		code, target := readError(err)
		h.textError(w, r, "failed to read request body: "+err.Error(), target, code)
		return
	}

	url := strings.TrimSpace(string(body))
	if url == "" {
		h.textError(w, r, "body is empty", errs.ErrInvalidRecord, http.StatusBadRequest)
		return
	}
	if !govalidator.IsURL(url) {
		h.textError(w, r, "not a valid url: "+url, errs.ErrInvalidRecord, http.StatusBadRequest)
		return
	}

	rec, err := h.service.Shorten(r.Context(), url)
	if err != nil && (rec == nil || !errors.Is(err, errs.ErrAliasTaken)) {
		h.textError(w, r, "failed to shorten url: "+url, err, statusCode(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	switch {
	case err != nil:
		w.WriteHeader(http.StatusConflict)
	default:
		w.WriteHeader(http.StatusCreated)
	}

	if _, err = fmt.Fprint(w, h.link(rec.Alias)); err != nil {
		h.logger.With(r.Context()).Errorf("failed to write response: %s", err)
	}
}
