package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ytlabs/yt-mcp/internal/instrumentation"
)

func TestInstrumentHandlerPreservesResponse(t *testing.T) {
	// A zero-value recorder must not interfere with the response.
	handler := instrumentHandler(&instrumentation.Metrics{}, "/mcp",
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/mcp", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestStatusRecorderDefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	recorder := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	// Writing without an explicit WriteHeader keeps the implicit 200.
	_, err := recorder.Write([]byte("ok"))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, recorder.status)
}
