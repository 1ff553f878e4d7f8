package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusBadGateway, "object storage unavailable", map[string]interface{}{
		"code":   "storage",
		"status": 999,
	})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "storage", body["code"])
	assert.EqualValues(t, 502, body["status"])
	assert.Equal(t, "Bad Gateway", body["title"])
	assert.Contains(t, body["type"], "section-6.6.3")
}

func TestRespondJSONEncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, map[string]interface{}{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
