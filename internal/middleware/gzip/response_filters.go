package gzip

import (
	"net/http"
	"strings"

	gz "github.com/nanmu42/gzip"
	"github.com/signalsciences/ac/acascii"
)

var (
	_ gz.ResponseHeaderFilter = encodedFilter{}
	_ gz.ResponseHeaderFilter = (*mediaTypeFilter)(nil)
)

// compressibleTypes are the media types the service answers with.
var compressibleTypes = []string{
	"text/plain",
	"application/json",
}

// encodedFilter rejects responses that already carry an encoding.
type encodedFilter struct{}

func (encodedFilter) ShouldCompress(header http.Header) bool {
	return header.Get("Content-Encoding") == "" &&
		header.Get("Transfer-Encoding") == ""
}

// mediaTypeFilter accepts responses whose Content-Type contains one of
// its types. An empty type in the list admits responses without
// a Content-Type.
type mediaTypeFilter struct {
	types   *acascii.Matcher
	untyped bool
}

func newMediaTypeFilter(types ...string) *mediaTypeFilter {
	f := new(mediaTypeFilter)

	patterns := make([]string, 0, len(types))
	for _, t := range types {
		if t == "" {
			f.untyped = true
			continue
		}
		patterns = append(patterns, strings.ToLower(t))
	}
	if len(patterns) > 0 {
		f.types = acascii.MustCompileString(patterns)
	}

	return f
}

func (f *mediaTypeFilter) ShouldCompress(header http.Header) bool {
	ct := header.Get("Content-Type")
	switch {
	case ct == "":
		return f.untyped
	case f.types == nil:
		return false
	default:
		return f.types.MatchString(strings.ToLower(ct))
	}
}
