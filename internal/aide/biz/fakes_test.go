package biz

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aide-dev/aide/internal/aide/store"
	"github.com/aide-dev/aide/pkg/component/qdrant"
	dbopts "github.com/aide-dev/aide/pkg/options/db"
)

func newTestStore(t *testing.T) store.Factory {
	t.Helper()
	factory, err := store.NewFactory(&dbopts.Options{
		Driver: dbopts.DriverSQLite,
		DSN:    ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })
	return factory
}

// fakeEmbedder returns a fixed-dimension vector derived from text length.
// When err is set it fails on the failOn-th call, or on every call when
// failOn is zero.
type fakeEmbedder struct {
	calls  []string
	err    error
	failOn int
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := f.EmbedSingle(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(_ context.Context, text string) ([]float32, error) {
	if f.err != nil && (f.failOn == 0 || len(f.calls)+1 == f.failOn) {
		return nil, f.err
	}
	f.calls = append(f.calls, text)
	return []float32{float32(len(text)), 1, 2}, nil
}

func (f *fakeEmbedder) Name() string { return "fake" }

type upsertCall struct {
	chunkID    int64
	documentID int64
	project    string
}

// fakeIndex records upserts and serves canned search matches. When
// upsertErr is set it fails on the upsertFailOn-th call, or on every
// call when upsertFailOn is zero.
type fakeIndex struct {
	upserts      []upsertCall
	matches      []qdrant.Match
	upsertErr    error
	upsertFailOn int
	searchErr    error
	lastTopK     int
	lastSearch   string
}

func (f *fakeIndex) Upsert(_ context.Context, chunkID, documentID int64, project string, _ []float32) error {
	if f.upsertErr != nil && (f.upsertFailOn == 0 || len(f.upserts)+1 == f.upsertFailOn) {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, upsertCall{chunkID, documentID, project})
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, topK int, project string) ([]qdrant.Match, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.lastTopK = topK
	f.lastSearch = project
	return f.matches, nil
}

// fakeChat echoes a canned answer and records the prompts it saw.
type fakeChat struct {
	answer  string
	err     error
	prompts []string
	systems []string
}

func (f *fakeChat) Generate(_ context.Context, prompt, systemPrompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.prompts = append(f.prompts, prompt)
	f.systems = append(f.systems, systemPrompt)
	return f.answer, nil
}

func (f *fakeChat) Name() string { return "fake" }

var errBoom = fmt.Errorf("boom")
