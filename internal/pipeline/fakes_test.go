package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/matsen/paperscope/internal/embedding"
	"github.com/matsen/paperscope/internal/metastore"
	"github.com/matsen/paperscope/internal/paper"
	"github.com/matsen/paperscope/internal/vecindex"
)

// fakeFeed returns a canned batch of papers.
type fakeFeed struct {
	papers []paper.Paper
	err    error
	calls  int
}

func (f *fakeFeed) Fetch(ctx context.Context, topic string) ([]paper.Paper, error) {
	f.calls++
	return f.papers, f.err
}

// fakeProvider derives a deterministic 3-dimensional vector from the text
// length so distinct abstracts embed differently.
type fakeProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeProvider) Embed(ctx context.Context, text string) (embedding.Embedding, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return embedding.Embedding{}, f.err
	}
	n := float32(len(text))
	return embedding.Embedding{Vector: []float32{n, 1 / (n + 1), 1}}, nil
}

func (f *fakeProvider) ModelName() string { return "fake-model" }
func (f *fakeProvider) Dimensions() int   { return 3 }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeIndex records upserted batches and answers queries with canned
// neighbors.
type fakeIndex struct {
	mu          sync.Mutex
	upsertCalls int
	upserted    [][]vecindex.Datapoint
	queryCalls  int
	neighbors   []vecindex.Neighbor
	upsertErr   error
	queryErr    error
}

func (f *fakeIndex) Upsert(ctx context.Context, batch []vecindex.Datapoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, batch)
	return nil
}

func (f *fakeIndex) Query(ctx context.Context, vector []float32, k int) ([]vecindex.Neighbor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if len(f.neighbors) > k {
		return f.neighbors[:k], nil
	}
	return f.neighbors, nil
}

// fakeStore is an in-memory metadata store with call counts and failure
// injection.
type fakeStore struct {
	mu         sync.Mutex
	papers     map[string]paper.Paper
	writeCalls int
	readCalls  int
	writeErr   error
	readErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{papers: make(map[string]paper.Paper)}
}

func (f *fakeStore) WriteBatch(ctx context.Context, papers []paper.Paper) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	if f.writeErr != nil {
		return f.writeErr
	}
	for _, p := range papers {
		f.papers[p.ID] = p
	}
	return nil
}

func (f *fakeStore) Read(ctx context.Context, id string) (*paper.Paper, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls++
	if f.readErr != nil {
		return nil, f.readErr
	}
	p, ok := f.papers[id]
	if !ok {
		return nil, metastore.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) Close() error { return nil }

var errBoom = errors.New("boom")
