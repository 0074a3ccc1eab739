package pipeline

import (
	"context"
	"fmt"

	"github.com/matsen/paperscope/internal/cache"
	"github.com/matsen/paperscope/internal/embedding"
	"github.com/matsen/paperscope/internal/metastore"
	"github.com/matsen/paperscope/internal/metrics"
	"github.com/matsen/paperscope/internal/paper"
	"github.com/matsen/paperscope/internal/vecindex"
)

// Allowed range for the search result count.
const (
	MinK = 1
	MaxK = 10
)

// Searcher drives the read path: embed the query once, run one
// nearest-neighbor lookup, then hydrate each result ID through the cache
// with a store fallback.
type Searcher struct {
	provider embedding.Provider
	index    vecindex.Index
	store    metastore.Store
	cache    *cache.PaperCache
}

// NewSearcher creates a retrieval orchestrator over the given
// collaborators.
func NewSearcher(provider embedding.Provider, index vecindex.Index, store metastore.Store, paperCache *cache.PaperCache) *Searcher {
	return &Searcher{
		provider: provider,
		index:    index,
		store:    store,
		cache:    paperCache,
	}
}

// Search returns the k stored papers nearest to the query text, in the
// rank order produced by the index. Results whose metadata cannot be found
// carry a nil Paper rather than failing the request.
func (s *Searcher) Search(ctx context.Context, query string, k int) ([]paper.SearchResult, error) {
	if k < MinK || k > MaxK {
		metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: got %d, want %d-%d", ErrInvalidK, k, MinK, MaxK)
	}

	emb, err := s.provider.Embed(ctx, query)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		metrics.StageFailuresTotal.WithLabelValues(StageEmbed).Inc()
		return nil, stageError(StageEmbed, err)
	}

	neighbors, err := s.index.Query(ctx, emb.Vector, k)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		metrics.StageFailuresTotal.WithLabelValues(StageIndexQuery).Inc()
		return nil, stageError(StageIndexQuery, err)
	}

	results := make([]paper.SearchResult, len(neighbors))
	for i, n := range neighbors {
		results[i] = paper.SearchResult{
			ID:    n.ID,
			Score: n.Score,
			Paper: s.hydrate(ctx, n.ID),
		}
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	return results, nil
}

// hydrate looks up paper metadata, cache first with a store fallback. A
// store hit populates the cache for future lookups. Absent IDs and store
// read failures both degrade to nil: the ranked ID list is still valid
// without the metadata.
func (s *Searcher) hydrate(ctx context.Context, id string) *paper.Paper {
	if p, ok := s.cache.Get(id); ok {
		metrics.CacheHitsTotal.Inc()
		return &p
	}
	metrics.CacheMissesTotal.Inc()

	p, err := s.store.Read(ctx, id)
	if err != nil {
		return nil
	}

	s.cache.Put(id, *p)
	return p
}
