// Package qdrant provides a REST client for a single Qdrant collection
// holding document chunk embeddings.
package qdrant

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kart-io/logger"

	qdrantopts "github.com/aide-dev/aide/pkg/options/qdrant"
	"github.com/aide-dev/aide/pkg/utils/json"
)

// maxErrBody caps how much of a response body ends up in error strings.
const maxErrBody = 300

// Match is a similarity hit resolved from the collection.
type Match struct {
	ChunkID    int64
	DocumentID int64
	Score      float32
}

// Client talks to one named Qdrant collection. The collection is
// provisioned lazily on first use; after one successful verify-or-create
// round-trip no further existence checks hit the remote.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	dimension  int
	threshold  float32
	httpClient *http.Client

	mu    sync.Mutex
	ready bool
}

// NewClient validates the options and builds a client. No I/O happens
// until the first Upsert or Search.
func NewClient(opts *qdrantopts.Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("qdrant: base url is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("qdrant: invalid base url %q", opts.BaseURL)
	}
	if strings.TrimSpace(opts.Collection) == "" {
		return nil, fmt.Errorf("qdrant: collection name is required")
	}
	if opts.Dimension <= 0 {
		return nil, fmt.Errorf("qdrant: vector dimension must be positive")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    base,
		apiKey:     opts.APIKey,
		collection: strings.TrimSpace(opts.Collection),
		dimension:  opts.Dimension,
		threshold:  opts.ScoreThreshold,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Upsert writes one chunk embedding into the collection. The point id is
// the chunk id, so re-ingesting the same chunk overwrites its vector.
func (c *Client) Upsert(ctx context.Context, chunkID, documentID int64, project string, vector []float32) error {
	project = strings.TrimSpace(project)
	switch {
	case chunkID <= 0:
		return fmt.Errorf("qdrant: chunk id must be positive")
	case documentID <= 0:
		return fmt.Errorf("qdrant: document id must be positive")
	case project == "":
		return fmt.Errorf("qdrant: project is required")
	case len(vector) != c.dimension:
		return fmt.Errorf("qdrant: vector has %d dimensions, collection expects %d", len(vector), c.dimension)
	}

	if err := c.ensureCollection(ctx); err != nil {
		return err
	}

	body := map[string]any{
		"points": []map[string]any{{
			"id":     chunkID,
			"vector": vector,
			"payload": map[string]any{
				"chunkId":    chunkID,
				"documentId": documentID,
				"project":    project,
			},
		}},
	}

	endpoint := fmt.Sprintf("%s/collections/%s/points", c.baseURL, c.collection)
	status, respBody, err := c.do(ctx, http.MethodPut, endpoint, body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apiError(http.MethodPut, endpoint, status, respBody)
	}
	return nil
}

// Search returns up to topK matches for the vector within the project,
// in the remote's descending score order. Hits at or below the score
// threshold are dropped, as are hits whose payload cannot be resolved.
// A missing collection yields an empty result, not an error.
func (c *Client) Search(ctx context.Context, vector []float32, topK int, project string) ([]Match, error) {
	project = strings.TrimSpace(project)
	switch {
	case topK <= 0:
		return nil, fmt.Errorf("qdrant: topK must be positive")
	case project == "":
		return nil, fmt.Errorf("qdrant: project is required")
	case len(vector) != c.dimension:
		return nil, fmt.Errorf("qdrant: vector has %d dimensions, collection expects %d", len(vector), c.dimension)
	}

	if err := c.ensureCollection(ctx); err != nil {
		return nil, err
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
		"filter": map[string]any{
			"must": []map[string]any{{
				"key":   "project",
				"match": map[string]any{"value": project},
			}},
		},
	}

	endpoint := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	status, respBody, err := c.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, apiError(http.MethodPost, endpoint, status, respBody)
	}

	var parsed struct {
		Result []struct {
			ID      int64          `json:"id"`
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("qdrant: decode search response: %w", err)
	}

	matches := make([]Match, 0, len(parsed.Result))
	for _, hit := range parsed.Result {
		if hit.Score <= c.threshold {
			continue
		}
		if hit.Payload == nil {
			logger.Debugw("dropping hit without payload", "point_id", hit.ID)
			continue
		}

		chunkID, ok := payloadInt64(hit.Payload, "chunkId")
		if !ok {
			// Points are keyed by chunk id, so the id stands in.
			chunkID = hit.ID
		}
		documentID, ok := payloadInt64(hit.Payload, "documentId")
		if !ok {
			logger.Debugw("dropping hit without documentId", "point_id", hit.ID)
			continue
		}
		hitProject, _ := hit.Payload["project"].(string)
		if strings.TrimSpace(hitProject) == "" {
			logger.Debugw("dropping hit without project", "point_id", hit.ID)
			continue
		}
		if chunkID <= 0 || documentID <= 0 {
			logger.Debugw("dropping hit with invalid ids",
				"point_id", hit.ID, "chunk_id", chunkID, "document_id", documentID)
			continue
		}

		matches = append(matches, Match{
			ChunkID:    chunkID,
			DocumentID: documentID,
			Score:      hit.Score,
		})
	}
	return matches, nil
}

// ensureCollection verifies the collection exists, creating it on first
// use. At most one verify-or-create round-trip reaches the remote under
// any concurrency; failures leave the flag unset so the next call retries.
func (c *Client) ensureCollection(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return nil
	}

	endpoint := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	status, respBody, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	switch status {
	case http.StatusOK:
		c.ready = true
		return nil
	case http.StatusNotFound:
	default:
		return apiError(http.MethodGet, endpoint, status, respBody)
	}

	create := map[string]any{
		"vectors": map[string]any{
			"size":     c.dimension,
			"distance": "Cosine",
		},
	}
	status, respBody, err = c.do(ctx, http.MethodPut, endpoint, create)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apiError(http.MethodPut, endpoint, status, respBody)
	}

	logger.Infow("created vector collection", "collection", c.collection, "dimension", c.dimension)
	c.ready = true
	return nil
}

// do sends one request and returns status and body. Transport errors are
// wrapped with method and URL.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("qdrant: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("qdrant: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("qdrant: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("qdrant: %s %s: read response: %w", method, endpoint, err)
	}
	return resp.StatusCode, respBody, nil
}

func apiError(method, endpoint string, status int, body []byte) error {
	return fmt.Errorf("qdrant: %s %s returned status %d: %s", method, endpoint, status, truncate(body, maxErrBody))
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n]
	}
	return s
}

func payloadInt64(payload map[string]any, key string) (int64, bool) {
	switch v := payload[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
