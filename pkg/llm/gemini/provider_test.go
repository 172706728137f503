package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aide-dev/aide/pkg/utils/json"
)

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	p, err := NewProvider(map[string]any{
		"base_url": baseURL,
		"api_key":  "test-key",
	})
	require.NoError(t, err)
	return p
}

func TestNewProviderRequiresAPIKey(t *testing.T) {
	_, err := NewProvider(map[string]any{})
	assert.Error(t, err)
}

func TestEmbedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":batchEmbedContents")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests := req["requests"].([]any)
		assert.Len(t, requests, 2)

		resp, _ := json.Marshal(map[string]any{
			"embeddings": []map[string]any{
				{"values": []float32{0.1, 0.2}},
				{"values": []float32{0.3, 0.4}},
			},
		})
		w.Write(resp)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	got, err := p.Embed(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []float32{0.1, 0.2}, got[0])
	assert.Equal(t, []float32{0.3, 0.4}, got[1])
}

func TestEmbedEmptyInput(t *testing.T) {
	p := newTestProvider(t, "http://localhost:1")
	got, err := p.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGenerateSendsSystemInstruction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":generateContent")

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		sys := req["systemInstruction"].(map[string]any)
		raw, _ := json.Marshal(sys)
		assert.Contains(t, string(raw), "be terse")

		resp, _ := json.Marshal(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "the answer"}},
					"role":  "model",
				},
			}},
		})
		w.Write(resp)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	got, err := p.Generate(context.Background(), "question", "be terse")
	require.NoError(t, err)
	assert.Equal(t, "the answer", got)
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	_, err := p.Generate(context.Background(), "question", "")
	assert.Error(t, err)
}

func TestPostRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		resp, _ := json.Marshal(map[string]any{
			"embeddings": []map[string]any{{"values": []float32{1}}},
		})
		w.Write(resp)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	got, err := p.EmbedSingle(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPostDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(strings.Repeat("e", 10)))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	_, err := p.EmbedSingle(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
