package response

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, map[string]string{"status": "ok"}, discard())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"status": "ok"}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequests(w, "slow down", discard())

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, map[string]any{"code": "RATE_LIMITED", "message": "slow down"}, body["error"])
}

