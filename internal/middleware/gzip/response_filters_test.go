package gzip

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func header(kv ...string) http.Header {
	h := make(http.Header)
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return h
}

func TestEncodedFilter(t *testing.T) {
	tests := map[string]struct {
		header http.Header
		want   bool
	}{
		"plain response":         {header(), true},
		"already gzipped":        {header("Content-Encoding", "gzip"), false},
		"brotli":                 {header("Content-Encoding", "br"), false},
		"chained encodings":      {header("Content-Encoding", "deflate, gzip"), false},
		"gzip transfer encoding": {header("Transfer-Encoding", "gzip"), false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodedFilter{}.ShouldCompress(tt.header))
		})
	}
}

func TestMediaTypeFilter(t *testing.T) {
	f := newMediaTypeFilter(compressibleTypes...)

	tests := map[string]bool{
		"application/json":                true,
		"application/json; charset=utf-8": true,
		"Text/Plain; charset=utf-8":       true,
		"text/html":                       false,
		"image/png":                       false,
		"":                                false,
	}
	for ct, want := range tests {
		t.Run(ct, func(t *testing.T) {
			assert.Equal(t, want, f.ShouldCompress(header("Content-Type", ct)))
		})
	}
}

func TestMediaTypeFilter_Untyped(t *testing.T) {
	f := newMediaTypeFilter("")
	assert.True(t, f.ShouldCompress(header()), "empty type admits untyped responses")
	assert.False(t, f.ShouldCompress(header("Content-Type", "application/json")))

	f = newMediaTypeFilter("", "text/plain")
	assert.True(t, f.ShouldCompress(header()))
	assert.True(t, f.ShouldCompress(header("Content-Type", "text/plain")))
}
