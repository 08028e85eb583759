package rest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KretovDmitry/goalias/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGetPing(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		statusCode int
		response   string
	}{
		{
			name:       "store is available",
			statusCode: http.StatusOK,
		},
		{
			name:       "store is closed",
			pingErr:    errs.ErrStorageUnavailable,
			statusCode: http.StatusInternalServerError,
			response:   fmt.Sprintf("%s: store is not available", errs.ErrStorageUnavailable),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			m.EXPECT().Ping(gomock.Any()).Times(1).Return(tt.pingErr)

			r := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
			w := httptest.NewRecorder()

			h.GetPing(w, r)

			res := w.Result()
			response := getResponseTextPayload(t, res)
			require.NoError(t, res.Body.Close(), "failed close body")

			assert.Equal(t, tt.statusCode, res.StatusCode)
			assert.Equal(t, tt.response, response)
		})
	}
}

func TestGetHello(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.GetHello(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, textPlain, res.Header.Get(contentType))
	assert.Equal(t, "Hello, World!", getResponseTextPayload(t, res))
}
