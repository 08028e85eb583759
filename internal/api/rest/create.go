package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/KretovDmitry/goalias/internal/errs"
	"github.com/asaskevich/govalidator"
)

// maxBodySize limits request bodies.
const maxBodySize = 1 << 20

// aliasRegexp is what an alias may look like on the wire.
var aliasRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// reservedAliases are served by static GET routes.
// An alias with such a name would never be resolved.
var reservedAliases = map[string]struct{}{
	"ping": {},
}

func isReserved(alias string) bool {
	_, ok := reservedAliases[alias]
	return ok
}

type createRequest struct {
	Alias string `json:"alias"`
	URL   string `json:"url"`
}

// PostCreateAlias records a user chosen alias.
//
// Request:
//
//	POST /create
//	Content-Type: application/json
//	{
//	    "alias": "go",
//	    "url": "https://go.dev/"
//	}
//
// Response:
//
//	HTTP/1.1 201 Created
//	Content-Type: application/json
//	{
//	    "alias": "go",
//	    "url": "https://go.dev/"
//	}
//
// An alias that is already taken gives 409 Conflict and changes nothing.
func (h *Handler) PostCreateAlias(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); mediaType(ct) != "application/json" {
		h.jsonError(w, r, "bad content-type: "+ct, errs.ErrInvalidRequest, http.StatusBadRequest)
		return
	}

	var payload createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&payload); err != nil {
		code, target := readError(err)
		h.jsonError(w, r, "failed to decode request: "+err.Error(), target, code)
		return
	}

	if !aliasRegexp.MatchString(payload.Alias) {
		h.jsonError(w, r, "alias must match "+aliasRegexp.String(), errs.ErrInvalidRecord, http.StatusBadRequest)
		return
	}
	if isReserved(payload.Alias) {
		h.jsonError(w, r, "alias is reserved: "+payload.Alias, errs.ErrInvalidRecord, http.StatusBadRequest)
		return
	}
	if !govalidator.IsURL(payload.URL) {
		h.jsonError(w, r, "not a valid url: "+payload.URL, errs.ErrInvalidRecord, http.StatusBadRequest)
		return
	}

	rec, err := h.service.Create(r.Context(), payload.Alias, payload.URL)
	if err != nil {
		msg := "failed to create alias " + payload.Alias
		if errors.Is(err, errs.ErrAliasTaken) {
			msg = payload.Alias
		}
		h.jsonError(w, r, msg, err, statusCode(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err = json.NewEncoder(w).Encode(rec); err != nil {
		h.logger.With(r.Context()).Errorf("failed to encode response: %s", err)
	}
}
