package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorRecoveryWritesEnvelope(t *testing.T) {
	h := Logging(ErrorRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrInternalError, body.Error)
}

func TestLoggingCapturesStatus(t *testing.T) {
	var seen *responseWriter
	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.(*responseWriter)
		WriteErrorWithDetails(w, http.StatusBadRequest, ErrValidation, "bad", map[string]string{"volume": "max"})
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings", nil))

	require.NotNil(t, seen)
	assert.Equal(t, http.StatusBadRequest, seen.status)
	assert.Equal(t, rec.Body.Len(), seen.size)
	assert.Contains(t, rec.Body.String(), `"volume":"max"`)
}
