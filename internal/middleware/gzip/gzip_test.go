package gzip

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	long := strings.Repeat(`{"alias":"go","url":"https://go.dev/"}`, 32)

	tests := []struct {
		name           string
		acceptEncoding string
		contentType    string
		body           string
		wantGzip       bool
	}{
		{"long json", "gzip", "application/json", long, true},
		{"long text", "gzip, deflate", "text/plain; charset=utf-8", long, true},
		{"client does not accept gzip", "", "application/json", long, false},
		{"short body", "gzip", "application/json", `{"alias":"go"}`, false},
		{"binary content", "gzip", "image/png", long, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				_, err := io.WriteString(w, tt.body)
				require.NoError(t, err)
			})

			r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.acceptEncoding != "" {
				r.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()

			Handler(0)(next).ServeHTTP(w, r)

			res := w.Result()
			defer res.Body.Close()

			var body io.Reader = res.Body
			if tt.wantGzip {
				assert.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
				zr, err := gzip.NewReader(res.Body)
				require.NoError(t, err)
				body = zr
			} else {
				assert.Empty(t, res.Header.Get("Content-Encoding"))
			}

			got, err := io.ReadAll(body)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(got))
		})
	}
}
