package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/kart-io/logger"
	"github.com/redis/go-redis/v9"

	cacheopts "github.com/aide-dev/aide/pkg/options/cache"
)

// AnswerCache is a read-through Redis cache for generated answers. It is
// best-effort only: cache errors are logged and never fail a request.
type AnswerCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewAnswerCache creates the cache, or nil when disabled.
func NewAnswerCache(opts *cacheopts.Options) *AnswerCache {
	if opts == nil || !opts.Enabled {
		return nil
	}
	return &AnswerCache{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		ttl:    opts.TTL,
		prefix: opts.KeyPrefix,
	}
}

// Key builds the deterministic cache key for a question within a project.
func (c *AnswerCache) Key(project, question string) string {
	sum := sha256.Sum256([]byte(project + "\x00" + question))
	return c.prefix + hex.EncodeToString(sum[:])
}

// Get returns a cached answer and whether one was found.
func (c *AnswerCache) Get(ctx context.Context, project, question string) (string, bool) {
	if c == nil {
		return "", false
	}
	answer, err := c.client.Get(ctx, c.Key(project, question)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warnw("answer cache read failed", "error", err)
		}
		return "", false
	}
	return answer, true
}

// Set stores an answer.
func (c *AnswerCache) Set(ctx context.Context, project, question, answer string) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, c.Key(project, question), answer, c.ttl).Err(); err != nil {
		logger.Warnw("answer cache write failed", "error", err)
	}
}

// Close releases the Redis connection.
func (c *AnswerCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
