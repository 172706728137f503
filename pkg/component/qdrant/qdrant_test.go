package qdrant

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qdrantopts "github.com/aide-dev/aide/pkg/options/qdrant"
	"github.com/aide-dev/aide/pkg/utils/json"
)

func testOptions(baseURL string) *qdrantopts.Options {
	return &qdrantopts.Options{
		BaseURL:        baseURL,
		Collection:     "aide",
		Dimension:      3,
		ScoreThreshold: 0.5,
		Timeout:        5 * time.Second,
	}
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*qdrantopts.Options)
	}{
		{"empty base url", func(o *qdrantopts.Options) { o.BaseURL = "  " }},
		{"invalid base url", func(o *qdrantopts.Options) { o.BaseURL = "not a url" }},
		{"blank collection", func(o *qdrantopts.Options) { o.Collection = " " }},
		{"zero dimension", func(o *qdrantopts.Options) { o.Dimension = 0 }},
		{"negative dimension", func(o *qdrantopts.Options) { o.Dimension = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions("http://localhost:6333")
			tt.mutate(opts)
			_, err := NewClient(opts)
			assert.Error(t, err)
		})
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client, err := NewClient(testOptions("http://localhost:6333/"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:6333", client.baseURL)
}

func TestEnsureCollectionOnce(t *testing.T) {
	var gets, puts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/aide":
			atomic.AddInt32(&gets, 1)
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/aide":
			atomic.AddInt32(&puts, 1)
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/aide/points":
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer srv.Close()

	client, err := NewClient(testOptions(srv.URL))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := client.Upsert(context.Background(), id, 1, "docs", []float32{1, 2, 3})
			assert.NoError(t, err)
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&gets))
	assert.Equal(t, int32(1), atomic.LoadInt32(&puts))
}

func TestEnsureCollectionRetriesAfterFailure(t *testing.T) {
	var gets int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/aide":
			if atomic.AddInt32(&gets, 1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, "boom")
				return
			}
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/aide/points":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer srv.Close()

	client, err := NewClient(testOptions(srv.URL))
	require.NoError(t, err)

	err = client.Upsert(context.Background(), 1, 1, "docs", []float32{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "boom")

	err = client.Upsert(context.Background(), 1, 1, "docs", []float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&gets))
}

func TestUpsertValidatesBeforeIO(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	client, err := NewClient(testOptions(srv.URL))
	require.NoError(t, err)

	ctx := context.Background()
	vec := []float32{1, 2, 3}

	assert.Error(t, client.Upsert(ctx, 0, 1, "docs", vec))
	assert.Error(t, client.Upsert(ctx, 1, 0, "docs", vec))
	assert.Error(t, client.Upsert(ctx, 1, 1, "  ", vec))
	assert.Error(t, client.Upsert(ctx, 1, 1, "docs", []float32{1, 2}))
}

func TestUpsertSendsPointPayload(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/aide":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/aide/points":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer srv.Close()

	client, err := NewClient(testOptions(srv.URL))
	require.NoError(t, err)

	require.NoError(t, client.Upsert(context.Background(), 42, 7, " docs ", []float32{1, 2, 3}))

	points, ok := captured["points"].([]any)
	require.True(t, ok)
	require.Len(t, points, 1)

	point := points[0].(map[string]any)
	assert.EqualValues(t, 42, point["id"])

	payload := point["payload"].(map[string]any)
	assert.EqualValues(t, 42, payload["chunkId"])
	assert.EqualValues(t, 7, payload["documentId"])
	assert.Equal(t, "docs", payload["project"])
}

func searchServer(t *testing.T, results []map[string]any, wantFilter string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/aide":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == "/collections/aide/points/search":
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, true, req["with_payload"])
			if wantFilter != "" {
				raw, err := json.Marshal(req["filter"])
				require.NoError(t, err)
				assert.Contains(t, string(raw), wantFilter)
			}
			resp, err := json.Marshal(map[string]any{"result": results})
			require.NoError(t, err)
			w.Header().Set("Content-Type", "application/json")
			w.Write(resp)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
}

func TestSearchFiltersAndOrders(t *testing.T) {
	results := []map[string]any{
		{"id": 1, "score": 0.95, "payload": map[string]any{"chunkId": 1, "documentId": 10, "project": "docs"}},
		{"id": 2, "score": 0.80, "payload": map[string]any{"chunkId": 2, "documentId": 10, "project": "docs"}},
		// At the threshold, not above it.
		{"id": 3, "score": 0.50, "payload": map[string]any{"chunkId": 3, "documentId": 10, "project": "docs"}},
		{"id": 4, "score": 0.70, "payload": nil},
		{"id": 5, "score": 0.70, "payload": map[string]any{"chunkId": 5, "project": "docs"}},
		{"id": 6, "score": 0.70, "payload": map[string]any{"chunkId": 6, "documentId": 10, "project": "  "}},
		// Missing chunkId falls back to the point id.
		{"id": 7, "score": 0.60, "payload": map[string]any{"documentId": 11, "project": "docs"}},
	}
	srv := searchServer(t, results, `"docs"`)
	defer srv.Close()

	client, err := NewClient(testOptions(srv.URL))
	require.NoError(t, err)

	matches, err := client.Search(context.Background(), []float32{1, 2, 3}, 10, "docs")
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, Match{ChunkID: 1, DocumentID: 10, Score: 0.95}, matches[0])
	assert.Equal(t, Match{ChunkID: 2, DocumentID: 10, Score: 0.80}, matches[1])
	assert.Equal(t, Match{ChunkID: 7, DocumentID: 11, Score: 0.60}, matches[2])
}

func TestSearchMissingCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/aide":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == "/collections/aide/points/search":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer srv.Close()

	client, err := NewClient(testOptions(srv.URL))
	require.NoError(t, err)

	matches, err := client.Search(context.Background(), []float32{1, 2, 3}, 5, "docs")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchValidation(t *testing.T) {
	client, err := NewClient(testOptions("http://localhost:6333"))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = client.Search(ctx, []float32{1, 2, 3}, 0, "docs")
	assert.Error(t, err)
	_, err = client.Search(ctx, []float32{1, 2, 3}, 5, " ")
	assert.Error(t, err)
	_, err = client.Search(ctx, []float32{1}, 5, "docs")
	assert.Error(t, err)
}

func TestErrorBodyTruncated(t *testing.T) {
	long := strings.Repeat("x", 1000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, long)
	}))
	defer srv.Close()

	client, err := NewClient(testOptions(srv.URL))
	require.NoError(t, err)

	err = client.Upsert(context.Background(), 1, 1, "docs", []float32{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET")
	assert.Contains(t, err.Error(), "status 502")
	assert.Less(t, len(err.Error()), 500)
}
