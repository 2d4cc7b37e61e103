package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestAPIKeyMiddleware(t *testing.T) {
	key := "0f3a9c"
	reached := false
	handler := apiKeyMiddleware(key)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		sendSuccess(w, GameState{ID: "g"})
	}))

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"matching key", key, http.StatusOK, ""},
		{"no header", "", http.StatusUnauthorized, "Missing X-API-Key header"},
		{"prefix of the key", key[:3], http.StatusUnauthorized, "Invalid API key"},
		{"key with a suffix", key + "00", http.StatusUnauthorized, "Invalid API key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest("POST", "/api/v1/games", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeEnvelope(t, w)
			assert.Equal(t, tt.status == http.StatusOK, reached)
			assert.Equal(t, tt.status == http.StatusOK, resp.Success)
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}

func TestSendJSONEnvelope(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		sendSuccess(w, PieceState{ID: 2, Slot: 18, Rotation: 1})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Error)
		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(18), data["slot"])
	})

	t.Run("created", func(t *testing.T) {
		w := httptest.NewRecorder()
		sendCreated(w, ArchiveResponse{ID: "2Zd3", Size: 16})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decodeEnvelope(t, w).Success)
	})

	t.Run("error", func(t *testing.T) {
		w := httptest.NewRecorder()
		sendError(w, "slot is occupied", http.StatusConflict)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeEnvelope(t, w)
		assert.False(t, resp.Success)
		assert.Nil(t, resp.Data)
		assert.Equal(t, "slot is occupied", resp.Error)
	})
}

func TestSendMaze(t *testing.T) {
	w := httptest.NewRecorder()
	sendMaze(w, "abc", []byte{0xCA, 0xFE, 0xDE, 0xED})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="abc.mze"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, []byte{0xCA, 0xFE, 0xDE, 0xED}, w.Body.Bytes())
}

func TestInstrumentAuthMiddleware(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	handler := metrics.InstrumentAuthMiddleware(apiKeyMiddleware("k"))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	for _, key := range []string{"k", "bad", ""} {
		req := httptest.NewRequest("GET", "/", nil)
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	// requests without a key are not counted
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.authRequestsTotal.WithLabelValues(statusSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.authRequestsTotal.WithLabelValues(statusError)))
}
