package vecindex

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"
)

func init() {
	// Register distance function for graph serialization
	hnsw.RegisterDistanceFunc("cosine", hnsw.CosineDistance)
}

// CurrentSnapshotVersion is the snapshot format version. Increment on
// breaking changes to the snapshot layout.
const CurrentSnapshotVersion = 1

// HNSW is an in-process approximate nearest-neighbor index backed by an
// HNSW graph with cosine distance.
//
// The underlying graph is not safe for concurrent use, so every operation
// holds a single mutex.
type HNSW struct {
	mu    sync.Mutex
	graph *hnsw.Graph[string]
	dims  int
}

// NewHNSW creates an empty index for vectors of the given dimensionality.
func NewHNSW(dims int) *HNSW {
	g := hnsw.NewGraph[string]()
	g.Distance = hnsw.CosineDistance
	return &HNSW{
		graph: g,
		dims:  dims,
	}
}

// Dimensions returns the index dimensionality.
func (h *HNSW) Dimensions() int {
	return h.dims
}

// Len returns the number of stored vectors.
func (h *HNSW) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.graph.Len()
}

// Upsert inserts or replaces the datapoints as one batch. Re-adding an
// existing ID replaces its vector.
func (h *HNSW) Upsert(ctx context.Context, batch []Datapoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, dp := range batch {
		if len(dp.Vector) != h.dims {
			return fmt.Errorf("%w: id %s has %d dimensions, index has %d",
				ErrDimensionMismatch, dp.ID, len(dp.Vector), h.dims)
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, dp := range batch {
		vec := make([]float32, len(dp.Vector))
		copy(vec, dp.Vector)
		h.graph.Add(hnsw.MakeNode(dp.ID, vec))
	}

	return nil
}

// Query returns up to k nearest neighbors, most similar first.
func (h *HNSW) Query(ctx context.Context, vector []float32, k int) ([]Neighbor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(vector) != h.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			ErrDimensionMismatch, len(vector), h.dims)
	}

	h.mu.Lock()
	nodes := h.graph.Search(vector, k)
	h.mu.Unlock()

	neighbors := make([]Neighbor, len(nodes))
	for i, n := range nodes {
		neighbors[i] = Neighbor{
			ID:    n.Key,
			Score: CosineSimilarity(vector, n.Value),
		}
	}

	return neighbors, nil
}

// snapshot is the on-disk representation of an index.
type snapshot struct {
	Version    int
	Dimensions int
	Graph      []byte
}

// Save persists the index to path using GOB encoding. The write goes to a
// temp file first, then renames for atomicity.
func (h *HNSW) Save(path string) error {
	h.mu.Lock()
	var graphBuf bytes.Buffer
	err := h.graph.Export(&graphBuf)
	h.mu.Unlock()
	if err != nil {
		return fmt.Errorf("exporting graph: %w", err)
	}

	snap := snapshot{
		Version:    CurrentSnapshotVersion,
		Dimensions: h.dims,
		Graph:      graphBuf.Bytes(),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	enc := gob.NewEncoder(f)
	if err := enc.Encode(snap); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// LoadHNSW reads an index snapshot from path. The stored dimensionality
// must match dims; a mismatch means the snapshot was built with a
// different embedding model.
func LoadHNSW(path string, dims int) (*HNSW, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	var snap snapshot
	dec := gob.NewDecoder(f)
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	if snap.Version != CurrentSnapshotVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, snap.Version, CurrentSnapshotVersion)
	}
	if snap.Dimensions != dims {
		return nil, fmt.Errorf("%w: snapshot has %d dimensions, want %d",
			ErrDimensionMismatch, snap.Dimensions, dims)
	}

	h := NewHNSW(dims)
	if err := h.graph.Import(bytes.NewReader(snap.Graph)); err != nil {
		return nil, fmt.Errorf("importing graph: %w", err)
	}

	return h, nil
}
