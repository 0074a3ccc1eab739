// Package vecindex provides nearest-neighbor indexing of paper embeddings.
package vecindex

import (
	"context"
	"errors"
	"math"
)

// Errors returned by index operations.
var (
	// ErrSnapshotNotFound indicates no index snapshot exists at the path.
	ErrSnapshotNotFound = errors.New("index snapshot not found")

	// ErrUnsupportedVersion indicates a snapshot with an incompatible format.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	// ErrDimensionMismatch indicates a vector whose length does not match
	// the index dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Datapoint pairs a paper ID with its embedding vector.
type Datapoint struct {
	ID     string
	Vector []float32
}

// Neighbor is one ranked result of a nearest-neighbor query.
type Neighbor struct {
	ID    string
	Score float32 // Cosine similarity, higher is closer
}

// Index stores embedding vectors keyed by paper ID and answers
// nearest-neighbor queries.
//
// Upserting an existing ID replaces its vector. Query results are ranked
// by the index's own similarity ordering; callers must not re-rank them.
type Index interface {
	// Upsert inserts or replaces the given datapoints as one batch.
	Upsert(ctx context.Context, batch []Datapoint) error

	// Query returns up to k neighbors nearest to the vector, best first.
	Query(ctx context.Context, vector []float32, k int) ([]Neighbor, error)
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denominator := float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB)))
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}
