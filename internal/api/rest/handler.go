// Package rest implements the HTTP API of the alias service.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/KretovDmitry/goalias/internal/config"
	"github.com/KretovDmitry/goalias/internal/errs"
	"github.com/KretovDmitry/goalias/internal/logger"
	"github.com/KretovDmitry/goalias/internal/models"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/mock_alias_service.go -package=mocks

// AliasService resolves and records aliases.
type AliasService interface {
	Resolve(ctx context.Context, alias string) (string, bool, error)
	Create(ctx context.Context, alias, destination string) (*models.AliasRecord, error)
	Shorten(ctx context.Context, destination string) (*models.AliasRecord, error)
	Ping(ctx context.Context) error
}

// Handler serves the HTTP routes.
type Handler struct {
	service AliasService
	config  *config.Config
	logger  logger.Logger
}

// NewHandler constructs a new handler, ensuring that the dependencies are valid values.
func NewHandler(service AliasService, config *config.Config, logger logger.Logger) (*Handler, error) {
	if service == nil {
		return nil, fmt.Errorf("%w: service", errs.ErrNilDependency)
	}
	if config == nil {
		return nil, fmt.Errorf("%w: config", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}
	return &Handler{
		service: service,
		config:  config,
		logger:  logger,
	}, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusCode maps service errors to HTTP status codes.
func statusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidRecord), errors.Is(err, errs.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrAliasTaken):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// textError writes the error as plain text. Server-side failures
// are logged at error level, client ones at debug.
func (h *Handler) textError(w http.ResponseWriter, r *http.Request, message string, err error, code int) {
	h.logError(r, message, err, code)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, "%s: %s", err, message)
}

// jsonError writes the error as errorResponse.
func (h *Handler) jsonError(w http.ResponseWriter, r *http.Request, message string, err error, code int) {
	h.logError(r, message, err, code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err = json.NewEncoder(w).Encode(errorResponse{
		Error: fmt.Sprintf("%s: %s", err, message),
	}); err != nil {
		h.logger.With(r.Context()).Errorf("failed to encode response: %s", err)
	}
}

func (h *Handler) logError(r *http.Request, message string, err error, code int) {
	l := h.logger.With(r.Context())
	if code >= http.StatusInternalServerError {
		l.Errorf("%s: %s", message, err)
		return
	}
	l.Debugf("%s: %s", message, err)
}

// readError classifies a failure to read the request body.
func readError(err error) (int, error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errs.ErrBodyTooLarge
	}
	return http.StatusBadRequest, errs.ErrInvalidRequest
}

// mediaType returns the lowercased content type without parameters.
func mediaType(contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(contentType, ";"); i > -1 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return contentType
}

// link builds the short link of the alias.
func (h *Handler) link(alias string) string {
	return fmt.Sprintf("http://%s/%s", h.config.Server.ReturnAddress, alias)
}
