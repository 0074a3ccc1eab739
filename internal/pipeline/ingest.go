// Package pipeline implements the ingestion and retrieval orchestration
// over the feed, embedding, index, and metadata collaborators.
package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matsen/paperscope/internal/cache"
	"github.com/matsen/paperscope/internal/embedding"
	"github.com/matsen/paperscope/internal/metastore"
	"github.com/matsen/paperscope/internal/metrics"
	"github.com/matsen/paperscope/internal/paper"
	"github.com/matsen/paperscope/internal/vecindex"
)

// DefaultEmbedConcurrency bounds concurrent embedding calls within one
// ingestion batch.
const DefaultEmbedConcurrency = 4

// FeedClient fetches candidate papers for a topic query.
type FeedClient interface {
	Fetch(ctx context.Context, topic string) ([]paper.Paper, error)
}

// ProgressReporter receives progress updates during batch embedding.
type ProgressReporter interface {
	// OnProgress is called with the current progress.
	OnProgress(current, total int)
}

// ProgressFunc is a function adapter for ProgressReporter.
type ProgressFunc func(current, total int)

// OnProgress implements ProgressReporter.
func (f ProgressFunc) OnProgress(current, total int) {
	f(current, total)
}

// Ingestor drives the write path: feed fetch, batch embedding, one vector
// index upsert, then a write-through cache update and one metadata batch
// write.
//
// The index write happens before the store write. The two are not
// transactionally coupled: a store failure after a successful index upsert
// leaves the stores inconsistent, and the error's stage says so.
type Ingestor struct {
	feed        FeedClient
	provider    embedding.Provider
	index       vecindex.Index
	store       metastore.Store
	cache       *cache.PaperCache
	concurrency int
	progress    ProgressReporter
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithEmbedConcurrency bounds concurrent embedding calls per batch.
func WithEmbedConcurrency(n int) IngestorOption {
	return func(ing *Ingestor) {
		if n > 0 {
			ing.concurrency = n
		}
	}
}

// WithProgress sets a progress reporter for batch embedding.
func WithProgress(reporter ProgressReporter) IngestorOption {
	return func(ing *Ingestor) {
		ing.progress = reporter
	}
}

// NewIngestor creates an ingestion orchestrator over the given
// collaborators.
func NewIngestor(feed FeedClient, provider embedding.Provider, index vecindex.Index, store metastore.Store, paperCache *cache.PaperCache, opts ...IngestorOption) *Ingestor {
	ing := &Ingestor{
		feed:        feed,
		provider:    provider,
		index:       index,
		store:       store,
		cache:       paperCache,
		concurrency: DefaultEmbedConcurrency,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// Ingest fetches papers for the topic and runs them through the write
// path. It returns the ingested IDs in feed order. An empty fetch returns
// ErrNoResults and performs no writes.
func (ing *Ingestor) Ingest(ctx context.Context, topic string) ([]string, error) {
	papers, err := ing.feed.Fetch(ctx, topic)
	if err != nil {
		metrics.IngestsTotal.WithLabelValues("error").Inc()
		metrics.StageFailuresTotal.WithLabelValues(StageFeed).Inc()
		return nil, stageError(StageFeed, err)
	}

	if len(papers) == 0 {
		metrics.IngestsTotal.WithLabelValues("no_results").Inc()
		return nil, ErrNoResults
	}

	return ing.IngestPapers(ctx, papers)
}

// IngestPapers runs an already-fetched batch through the write path:
// embed every abstract, upsert the full batch into the vector index, then
// write the metadata through the cache to the store. IDs are returned in
// batch order; duplicate IDs within the batch resolve last-write-wins.
//
// Any single embedding failure fails the whole call: a partially embedded
// batch would produce an inconsistent upsert.
func (ing *Ingestor) IngestPapers(ctx context.Context, papers []paper.Paper) ([]string, error) {
	batch := make([]vecindex.Datapoint, len(papers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ing.concurrency)

	var done atomicCounter
	total := len(papers)

	for i, p := range papers {
		g.Go(func() error {
			start := time.Now()
			emb, err := ing.provider.Embed(gctx, p.Abstract)
			if err != nil {
				return err
			}
			metrics.EmbedDurationSeconds.Observe(time.Since(start).Seconds())

			batch[i] = vecindex.Datapoint{ID: p.ID, Vector: emb.Vector}

			if ing.progress != nil {
				ing.progress.OnProgress(done.inc(), total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.IngestsTotal.WithLabelValues("error").Inc()
		metrics.StageFailuresTotal.WithLabelValues(StageEmbed).Inc()
		return nil, stageError(StageEmbed, err)
	}

	if err := ing.index.Upsert(ctx, batch); err != nil {
		metrics.IngestsTotal.WithLabelValues("error").Inc()
		metrics.StageFailuresTotal.WithLabelValues(StageIndexWrite).Inc()
		return nil, stageError(StageIndexWrite, err)
	}

	for _, p := range papers {
		ing.cache.Put(p.ID, p)
	}

	if err := ing.store.WriteBatch(ctx, papers); err != nil {
		// The vector upsert already succeeded; the stores are now
		// inconsistent until a re-ingest. The stage tag surfaces this.
		metrics.IngestsTotal.WithLabelValues("error").Inc()
		metrics.StageFailuresTotal.WithLabelValues(StageStoreWrite).Inc()
		return nil, stageError(StageStoreWrite, err)
	}

	ids := make([]string, len(papers))
	for i, p := range papers {
		ids[i] = p.ID
	}

	metrics.IngestsTotal.WithLabelValues("ok").Inc()
	metrics.IngestedPapersTotal.Add(float64(len(ids)))
	return ids, nil
}

// atomicCounter counts completed embeddings across goroutines.
type atomicCounter struct {
	n atomic.Int64
}

func (c *atomicCounter) inc() int {
	return int(c.n.Add(1))
}
