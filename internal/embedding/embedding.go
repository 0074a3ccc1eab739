// Package embedding provides vector embedding generation for text.
package embedding

import "context"

// Embedding represents a vector embedding of text.
type Embedding struct {
	Vector []float32 // The embedding vector (e.g., 384 dimensions for all-minilm)
}

// Dimensions returns the dimensionality of the embedding.
func (e Embedding) Dimensions() int {
	return len(e.Vector)
}

// Provider generates embeddings from text.
//
// Embeddings are deterministic for a given model version, and every vector
// a provider returns has the same dimensionality for the provider's
// lifetime. A dimension mismatch is a configuration error, not a
// recoverable condition.
type Provider interface {
	// Embed generates an embedding for the given text.
	Embed(ctx context.Context, text string) (Embedding, error)

	// ModelName returns the name of the embedding model.
	ModelName() string

	// Dimensions returns the expected vector dimensions.
	Dimensions() int
}
