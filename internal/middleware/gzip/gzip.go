// Package gzip compresses responses for clients that accept gzip.
package gzip

import (
	"compress/gzip"
	"net/http"

	gz "github.com/nanmu42/gzip"
)

// DefaultMinContentLength is the smallest body worth compressing.
// Redirects and short links stay below it.
const DefaultMinContentLength = 256

// Handler returns a middleware that compresses text and JSON responses
// of at least minContentLength bytes.
func Handler(minContentLength int64) func(next http.Handler) http.Handler {
	if minContentLength <= 0 {
		minContentLength = DefaultMinContentLength
	}

	h := gz.NewHandler(gz.Config{
		CompressionLevel: gzip.DefaultCompression,
		MinContentLength: minContentLength,
		RequestFilter: []gz.RequestFilter{
			gz.NewCommonRequestFilter(),
			gz.DefaultExtensionFilter(),
		},
		ResponseHeaderFilter: []gz.ResponseHeaderFilter{
			encodedFilter{},
			newMediaTypeFilter(compressibleTypes...),
		},
	})

	return h.WrapHandler
}
